package dispatch

import (
	"errors"
	"fmt"
	"net/http"

	"calc-mcp/internal/calc"
)

var (
	ErrDivisionByZero   = calc.ErrDivisionByZero
	ErrUnknownTool      = errors.New("unknown tool")
	ErrMalformedRequest = errors.New("malformed request")
	ErrInternal         = errors.New("internal error")
)

// UnknownToolError reports a tool name outside the registered set.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("Tool '%s' not found", e.Name)
}

func (e *UnknownToolError) Is(target error) bool { return target == ErrUnknownTool }

// StatusCode maps a dispatch error to the HTTP status reported to clients.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrDivisionByZero),
		errors.Is(err, ErrUnknownTool),
		errors.Is(err, ErrMalformedRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
