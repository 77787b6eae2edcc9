package tools

import (
	"go.uber.org/zap"

	"github.com/simonyos/reactchat/internal/facts"
	"github.com/simonyos/reactchat/internal/llm"
)

// NewDefaultRegistry registers Calculator, Search and CodeGenerator.
func NewDefaultRegistry(factsProvider facts.Provider, coder llm.Provider, logger *zap.Logger) (*Registry, error) {
	r := NewRegistry(logger)
	for _, t := range []Tool{
		NewCalculatorTool(),
		NewSearchTool(factsProvider),
		NewCodeGeneratorTool(coder),
	} {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}
