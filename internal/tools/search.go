package tools

import (
	"context"

	"github.com/simonyos/reactchat/internal/facts"
)

// SearchName is the registry name of SearchTool.
const SearchName = "Search"

// SearchTool looks up facts from a fact provider.
type SearchTool struct {
	BaseTool
	facts facts.Provider
}

// NewSearchTool creates a search tool over provider
func NewSearchTool(provider facts.Provider) *SearchTool {
	return &SearchTool{
		BaseTool: BaseTool{
			Def: ToolDefinition{
				Name:        SearchName,
				Description: "Useful for when you need to look up specific factual information that is not a calculation or code generation. This tool has limited internal knowledge. Input should be a clear factual query.",
			},
		},
		facts: provider,
	}
}

// Execute looks up the query. A miss returns facts.NoInformation.
func (t *SearchTool) Execute(ctx context.Context, input string) ToolResult {
	fact, ok, err := t.facts.Lookup(ctx, unquote(input))
	if err != nil {
		return Failure("Error: search failed: " + err.Error())
	}
	if !ok {
		return Ok(facts.NoInformation)
	}
	return Ok(fact)
}
