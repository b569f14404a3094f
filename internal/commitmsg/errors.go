package commitmsg

import (
	"errors"
	"fmt"
)

// ErrUnknownTool is returned when a caller asks for a tool other than ToolName
var ErrUnknownTool = errors.New("unknown tool")

// UnknownToolError names the tool that was requested
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("Unknown tool: %s", e.Name)
}

func (e *UnknownToolError) Unwrap() error {
	return ErrUnknownTool
}
