package dispatch

// Tool describes a callable tool and its input schema.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// ToolRequest is a single tool invocation as posted by a client.
type ToolRequest struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// TextContent is one text block of a successful result.
type TextContent struct {
	Text string `json:"text"`
}

// ToolResult is the JSON body returned to the caller. Exactly one of
// Content and Error is set.
type ToolResult struct {
	Content []TextContent `json:"content,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// NewResult wraps a computed value as a successful ToolResult.
func NewResult(v float64) ToolResult {
	return ToolResult{Content: []TextContent{{Text: FormatResult(v)}}}
}

// NewError wraps err as a failed ToolResult.
func NewError(err error) ToolResult {
	return ToolResult{Error: err.Error()}
}
