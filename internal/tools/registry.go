package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/simonyos/reactchat/internal/logging"
)

// Registry manages tool registration and execution. Names are matched
// exactly and case-sensitively; iteration follows registration order.
type Registry struct {
	tools  map[string]Tool
	order  []string
	logger *zap.Logger
}

// NewRegistry creates a new tool registry
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		tools:  make(map[string]Tool),
		logger: logging.OrNop(logger).Named("tools"),
	}
}

// Register adds a tool to the registry
func (r *Registry) Register(tool Tool) error {
	def := tool.Definition()
	if strings.TrimSpace(def.Name) == "" {
		return ErrEmptyName
	}
	if _, ok := r.tools[def.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, def.Name)
	}
	r.tools[def.Name] = tool
	r.order = append(r.order, def.Name)
	return nil
}

// Get retrieves a tool by name
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Resolve returns the tool registered under name or an error wrapping
// ErrUnknownTool that lists the available names.
func (r *Registry) Resolve(name string) (Tool, error) {
	if t, ok := r.tools[name]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownTool, name, strings.Join(r.order, ", "))
}

// Names returns tool names in registration order
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// List returns all registered tool definitions
func (r *Registry) List() []ToolDefinition {
	defs := make([]ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// Describe renders one "Name: Description" line per tool for the loop prompt.
func (r *Registry) Describe() string {
	var sb strings.Builder
	for i, def := range r.List() {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s: %s", def.Name, def.Description)
	}
	return sb.String()
}

// Execute runs a tool by name. Unknown tools, invalid input and panics all
// come back as an unsuccessful result whose output is the observation text.
func (r *Registry) Execute(ctx context.Context, call ToolCall) (result ToolResult) {
	tool, err := r.Resolve(call.Name)
	if err != nil {
		r.logger.Warn("unknown tool", zap.String("tool", call.Name))
		return Failure(fmt.Sprintf("%s is not a valid tool, try one of [%s].", call.Name, strings.Join(r.order, ", ")))
	}

	if err := tool.Validate(call.Input); err != nil {
		r.logger.Warn("invalid tool input", zap.String("tool", call.Name), zap.Error(err))
		return Failure("Error: " + err.Error())
	}

	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("tool panicked", zap.String("tool", call.Name), zap.Any("panic", p))
			result = Failure(fmt.Sprintf("Error: %s failed unexpectedly: %v", call.Name, p))
		}
		r.logger.Info("tool call",
			zap.String("tool", call.Name),
			zap.String("input", call.Input),
			zap.Bool("success", result.Success),
			zap.Duration("duration", time.Since(start)),
		)
	}()

	return tool.Execute(ctx, call.Input)
}
