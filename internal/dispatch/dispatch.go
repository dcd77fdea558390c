// Package dispatch resolves tool names to arithmetic operations. It is the
// contract shared by the HTTP and MCP front ends.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"calc-mcp/internal/calc"
	"calc-mcp/internal/logging"
)

type operation func(x, y float64) (float64, error)

type entry struct {
	tool Tool
	run  operation
}

// Dispatcher maps tool names to operations. It holds no per-call state and
// is safe for concurrent use.
type Dispatcher struct {
	log   *slog.Logger
	order []string
	tools map[string]entry
}

// New returns a Dispatcher exposing add, subtract, multiply and divide.
func New(c *calc.Calculator, logger *slog.Logger) *Dispatcher {
	if c == nil {
		c = calc.New(nil)
	}
	if logger == nil {
		logger = logging.New("dispatch")
	}
	d := &Dispatcher{log: logger, tools: make(map[string]entry)}
	d.register("add", "Add two numbers together", func(x, y float64) (float64, error) {
		return c.Add(x, y), nil
	})
	d.register("subtract", "Subtract two numbers", func(x, y float64) (float64, error) {
		return c.Subtract(x, y), nil
	})
	d.register("multiply", "Multiply two numbers", func(x, y float64) (float64, error) {
		return c.Multiply(x, y), nil
	})
	d.register("divide", "Divide two numbers", c.Divide)
	return d
}

func (d *Dispatcher) register(name, description string, run operation) {
	d.order = append(d.order, name)
	d.tools[name] = entry{
		tool: Tool{Name: name, Description: description, InputSchema: operandSchema()},
		run:  run,
	}
}

func operandSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"x": map[string]any{"type": "number", "description": "First operand"},
			"y": map[string]any{"type": "number", "description": "Second operand"},
		},
	}
}

// Tools lists the registered tools in registration order.
func (d *Dispatcher) Tools() []Tool {
	out := make([]Tool, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.tools[name].tool)
	}
	return out
}

// Call runs the named tool. Missing x or y default to zero; present but
// non-numeric operands are rejected with ErrMalformedRequest.
func (d *Dispatcher) Call(ctx context.Context, req ToolRequest) (result float64, err error) {
	e, ok := d.tools[req.Name]
	if !ok {
		d.log.WarnContext(ctx, "unknown tool", "tool", req.Name)
		return 0, &UnknownToolError{Name: req.Name}
	}
	x, err := d.operand(ctx, req.Arguments, "x")
	if err != nil {
		return 0, err
	}
	y, err := d.operand(ctx, req.Arguments, "y")
	if err != nil {
		return 0, err
	}

	defer func() {
		if r := recover(); r != nil {
			d.log.ErrorContext(ctx, "tool panicked", "tool", req.Name, "panic", r)
			result, err = 0, fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()
	return e.run(x, y)
}

func (d *Dispatcher) operand(ctx context.Context, args map[string]any, key string) (float64, error) {
	v, ok := args[key]
	if !ok || v == nil {
		d.log.DebugContext(ctx, "operand missing, defaulting to zero", "arg", key)
		return 0, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: argument %q must be a number", ErrMalformedRequest, key)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: argument %q must be a number", ErrMalformedRequest, key)
	}
}

// FormatResult renders v without a trailing fractional part for integral
// values and in exponent form for very large or very small magnitudes.
// Overflowed results render as inf or -inf.
func FormatResult(v float64) string {
	switch {
	case v == 0:
		return "0"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return "nan"
	}
	abs := math.Abs(v)
	if abs >= 1e21 || abs < 1e-6 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
