package registry

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/gulabjamun04/mcp-ai-assistant/tools"
	"github.com/gulabjamun04/mcp-ai-assistant/utils"
)

// callableTool adapts a discovered tool to the agent-facing tool
// interface. Input is a JSON object as produced by an LLM, cleaned of
// surrounding prose before parsing.
type callableTool struct {
	reg  *Registry
	desc *Descriptor
}

func (t *callableTool) Name() string {
	return t.desc.Name
}

func (t *callableTool) Description() string {
	return t.desc.Description
}

func (t *callableTool) Parameters() any {
	return t.desc.InputSchema
}

func (t *callableTool) Call(ctx context.Context, input string) (string, error) {
	var args map[string]any
	if input != "" {
		if err := json.Unmarshal(utils.CleanJSON([]byte(input)), &args); err != nil {
			return "", errors.WithMessagef(err, "failed to parse input for tool %s", t.desc.Name)
		}
	}
	return t.reg.Call(ctx, t.desc.Name, args), nil
}

// CallableTools returns the current snapshot's tools as agent-callable
// tools, sorted by name.
func (r *Registry) CallableTools() []tools.ITool {
	descs := r.Tools()
	list := make([]tools.ITool, 0, len(descs))
	for _, d := range descs {
		list = append(list, &callableTool{reg: r, desc: d})
	}
	return list
}
