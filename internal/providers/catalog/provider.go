package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/GriffinCanCode/opsconsole/internal/console/shell"
	"github.com/GriffinCanCode/opsconsole/internal/shared/types"
)

// Source is what the catalog reads commands from.
type Source interface {
	Table() *shell.Table
	Simulator() *shell.Simulator
}

// Provider describes the commands and simulated tools the console knows
type Provider struct {
	source Source
}

// NewProvider creates a catalog provider over source
func NewProvider(source Source) *Provider {
	return &Provider{source: source}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:           "catalog",
		Name:         "Command Catalog",
		Description:  "Built-in commands and simulated devops tools available in every session",
		Category:     types.CategorySystem,
		Capabilities: []string{"help", "completion", "introspection"},
		Tools: []types.Tool{
			{
				ID:          "catalog.commands",
				Name:        "List Commands",
				Description: "List commands, optionally filtered by kind or help category",
				Parameters: []types.Parameter{
					{Name: "kind", Type: "string", Description: "builtin or tool", Required: false},
					{Name: "category", Type: "string", Description: "Help category, e.g. \"DevOps Tools\"", Required: false},
				},
				Returns: "object{commands: array, count: number}",
			},
			{
				ID:          "catalog.describe",
				Name:        "Describe Command",
				Description: "Usage, category and, for tools, simulated latency",
				Parameters: []types.Parameter{
					{Name: "name", Type: "string", Description: "Command name", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "catalog.complete",
				Name:        "Complete",
				Description: "Command names starting with a prefix, as Tab completion sees them",
				Parameters: []types.Parameter{
					{Name: "prefix", Type: "string", Description: "Partial command name", Required: true},
				},
				Returns: "object{matches: array}",
			},
		},
	}
}

// Execute routes to appropriate operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, _ *types.Context) (*types.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch toolID {
	case "catalog.commands":
		return p.commands(params), nil
	case "catalog.describe":
		return p.describe(params), nil
	case "catalog.complete":
		return p.complete(params), nil
	default:
		return nil, fmt.Errorf("unknown tool: %s", toolID)
	}
}

func (p *Provider) commands(params map[string]interface{}) *types.Result {
	kind, _ := params["kind"].(string)
	category, _ := params["category"].(string)

	var out []map[string]interface{}
	for _, cmd := range p.source.Table().Commands() {
		if kind != "" && cmd.Kind.String() != kind {
			continue
		}
		if category != "" && !strings.EqualFold(cmd.Category, category) {
			continue
		}
		out = append(out, p.entry(cmd, false))
	}
	return &types.Result{Success: true, Data: map[string]interface{}{
		"commands": out,
		"count":    len(out),
	}}
}

func (p *Provider) describe(params map[string]interface{}) *types.Result {
	name, _ := params["name"].(string)
	if name == "" {
		return types.Failure("name parameter required")
	}
	cmd, ok := p.source.Table().Lookup(strings.ToLower(name))
	if !ok {
		return types.Failure("command not found: " + name)
	}
	return &types.Result{Success: true, Data: p.entry(cmd, true)}
}

func (p *Provider) complete(params map[string]interface{}) *types.Result {
	prefix, _ := params["prefix"].(string)
	prefix = strings.ToLower(prefix)

	matches := []string{}
	for _, name := range p.source.Table().Names() {
		if strings.HasPrefix(name, prefix) {
			matches = append(matches, name)
		}
	}
	sort.Strings(matches)
	return &types.Result{Success: true, Data: map[string]interface{}{"matches": matches}}
}

func (p *Provider) entry(cmd *shell.Command, detailed bool) map[string]interface{} {
	e := map[string]interface{}{
		"name":        cmd.Name,
		"usage":       cmd.Usage,
		"description": cmd.Description,
		"category":    cmd.Category,
		"kind":        cmd.Kind.String(),
	}
	if detailed && cmd.Tool != nil {
		e["latency_ms"] = p.source.Simulator().Delay(*cmd.Tool).Milliseconds()
		e["banner"] = cmd.Tool.Banner
	}
	return e
}
