package tools

import "errors"

var (
	ErrUnknownTool   = errors.New("unknown tool")
	ErrEmptyName     = errors.New("tool name is empty")
	ErrDuplicateTool = errors.New("tool already registered")
	ErrInputTooLarge = errors.New("tool input too large")
)
