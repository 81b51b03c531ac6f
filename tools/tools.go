// Package tools defines the Tool interface handed to LLM agent loops.
// Tools enable agents to interact with external systems and APIs in a
// structured, extensible way.
package tools

import (
	"context"
)

// ITool is a tool for the llm agent to interact with different applications.
type ITool interface {
	// Name returns the name of the Tool.
	Name() string
	// Description returns the description of the tool, to be used in the prompt.
	// Should not exceed LLM model limit.
	Description() string
	// Parameters returns the parameters definition of the function, to be used in the prompt.
	Parameters() any

	// Call executes the tool with the given JSON input and returns the result.
	Call(context.Context, string) (string, error)
}
