package flow

import "errors"

// Parse errors. Each names one way a definition can be malformed;
// Parse wraps them with the offending line or value.
var (
	ErrEmptyDefinition    = errors.New("empty flow definition")
	ErrNotFlow            = errors.New("not a flow definition")
	ErrInvalidLine        = errors.New("invalid line")
	ErrParamBeforeType    = errors.New("step parameter before any step type")
	ErrInvalidParamLine   = errors.New("invalid step parameter line")
	ErrUnknownStepType    = errors.New("unknown step type")
	ErrMissingName        = errors.New("flow has no name")
	ErrMissingDescription = errors.New("flow has no description")
	ErrNoSteps            = errors.New("flow has no steps")
	ErrPromptSource       = errors.New("transform step needs exactly one of prompt or promptFile")
	ErrPromptFileNotFound = errors.New("prompt file not found")
)
