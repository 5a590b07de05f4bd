package tools

// Result is the rendered outcome of one tool invocation, fed back to
// the model as the tool's reply.
type Result struct {
	Content string
	IsError bool
}

func NewTextResult(content string) *Result {
	return &Result{Content: content}
}

func NewErrorResult(content string) *Result {
	return &Result{Content: content, IsError: true}
}
