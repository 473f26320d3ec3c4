package mcp

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
)

// Tool is one callable MCP tool. Run receives the raw JSON arguments
// from tools/call and returns the text payload for the result envelope.
type Tool interface {
	Name() string
	Description() string
	InputSchema() map[string]any
	Run(ctx context.Context, arguments json.RawMessage) (string, error)
}

// Registry holds the tools exposed over tools/list and tools/call.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name()] = t
}

// Get returns the named tool, or nil if unknown.
func (r *Registry) Get(name string) Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[name]
}

// toolInfo is the tools/list wire shape for one tool.
type toolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// List returns descriptors for every registered tool, sorted by name so
// listings are stable across calls.
func (r *Registry) List() []toolInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]toolInfo, 0, len(r.tools))
	for _, t := range r.tools {
		infos = append(infos, toolInfo{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: t.InputSchema(),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}
