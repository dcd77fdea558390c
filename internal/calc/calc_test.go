package calc

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"
)

func quiet() *Calculator {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

var operands = []struct{ x, y float64 }{
	{2, 3},
	{-1.5, 4},
	{0, 7},
	{1e10, -3e-4},
	{0.1, 0.2},
	{-8, -2},
}

func TestOperations(t *testing.T) {
	c := quiet()
	if got := c.Add(2, 3); got != 5 {
		t.Errorf("Add(2, 3) = %v, want 5", got)
	}
	if got := c.Subtract(10, 3); got != 7 {
		t.Errorf("Subtract(10, 3) = %v, want 7", got)
	}
	if got := c.Multiply(-3, 4); got != -12 {
		t.Errorf("Multiply(-3, 4) = %v, want -12", got)
	}
	got, err := c.Divide(10, 4)
	if err != nil {
		t.Fatalf("Divide(10, 4): %v", err)
	}
	if got != 2.5 {
		t.Errorf("Divide(10, 4) = %v, want 2.5", got)
	}
}

func TestCommutativity(t *testing.T) {
	c := quiet()
	for _, o := range operands {
		if c.Add(o.x, o.y) != c.Add(o.y, o.x) {
			t.Errorf("add not commutative for %v, %v", o.x, o.y)
		}
		if c.Multiply(o.x, o.y) != c.Multiply(o.y, o.x) {
			t.Errorf("multiply not commutative for %v, %v", o.x, o.y)
		}
	}
}

func TestSubtractAntisymmetric(t *testing.T) {
	c := quiet()
	for _, o := range operands {
		if c.Subtract(o.x, o.y) != -c.Subtract(o.y, o.x) {
			t.Errorf("subtract(%v, %v) != -subtract(%v, %v)", o.x, o.y, o.y, o.x)
		}
	}
}

func TestDivideInvertsMultiply(t *testing.T) {
	c := quiet()
	for _, o := range operands {
		if o.y == 0 {
			continue
		}
		got, err := c.Divide(c.Multiply(o.x, o.y), o.y)
		if err != nil {
			t.Fatalf("Divide: %v", err)
		}
		tol := 1e-9 * math.Max(1, math.Abs(o.x))
		if math.Abs(got-o.x) > tol {
			t.Errorf("divide(multiply(%v, %v), %v) = %v", o.x, o.y, o.y, got)
		}
	}
}

func TestDivideByZero(t *testing.T) {
	c := quiet()
	for _, x := range []float64{0, 1, -1, math.MaxFloat64, math.Inf(1)} {
		_, err := c.Divide(x, 0)
		if !errors.Is(err, ErrDivisionByZero) {
			t.Errorf("Divide(%v, 0) err = %v, want ErrDivisionByZero", x, err)
		}
	}
	if ErrDivisionByZero.Error() != "Cannot divide by zero" {
		t.Errorf("unexpected message %q", ErrDivisionByZero.Error())
	}
}

func TestOperationIsLogged(t *testing.T) {
	var buf bytes.Buffer
	c := New(slog.New(slog.NewTextHandler(&buf, nil)))
	c.Add(2, 3)

	out := buf.String()
	for _, want := range []string{"op=add", "x=2", "y=3", "result=5"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in log output, got: %s", want, out)
		}
	}
}
