// Package calc implements the four arithmetic operations exposed as tools.
package calc

import (
	"errors"
	"log/slog"

	"calc-mcp/internal/logging"
)

// ErrDivisionByZero is returned by Divide when the divisor is zero.
var ErrDivisionByZero = errors.New("Cannot divide by zero")

// Calculator performs arithmetic and records each operation in the log.
type Calculator struct {
	log *slog.Logger
}

// New returns a Calculator. If logger is nil, a "calc" component logger is used.
func New(logger *slog.Logger) *Calculator {
	if logger == nil {
		logger = logging.New("calc")
	}
	return &Calculator{log: logger}
}

// Add returns x + y.
func (c *Calculator) Add(x, y float64) float64 {
	return c.record("add", x, y, x+y)
}

// Subtract returns x - y.
func (c *Calculator) Subtract(x, y float64) float64 {
	return c.record("subtract", x, y, x-y)
}

// Multiply returns x * y.
func (c *Calculator) Multiply(x, y float64) float64 {
	return c.record("multiply", x, y, x*y)
}

// Divide returns x / y, or ErrDivisionByZero when y is zero.
func (c *Calculator) Divide(x, y float64) (float64, error) {
	if y == 0 {
		c.log.Error("division by zero attempted", "op", "divide", "x", x, "y", y)
		return 0, ErrDivisionByZero
	}
	return c.record("divide", x, y, x/y), nil
}

func (c *Calculator) record(op string, x, y, result float64) float64 {
	c.log.Info("operation", "op", op, "x", x, "y", y, "result", result)
	return result
}
