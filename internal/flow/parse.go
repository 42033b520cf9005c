package flow

import (
	"fmt"
	"regexp"
	"strings"
)

const header = "autoflow"

var keyValue = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9]*)\s*:\s*(.*)$`)

// rawStep accumulates one step block's parameters before validation.
type rawStep struct {
	typ    string
	line   int
	params map[string]string
}

// Parse converts flow text into a FlowDefinition. It never panics;
// malformed input comes back as a wrapped parse error naming the
// offending line or missing field. Prompt-file existence is checked
// separately by ValidatePromptFiles, since it needs the store.
func Parse(text string) (*FlowDefinition, error) {
	def := &FlowDefinition{}

	var (
		sawHeader bool
		inSteps   bool
		steps     []*rawStep
		current   *rawStep
	)

	for n, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		line = strings.TrimSpace(line)
		if skippable(line) {
			continue
		}

		if !sawHeader {
			if !strings.EqualFold(line, header) {
				return nil, fmt.Errorf("%w: first line is %q", ErrNotFlow, line)
			}
			sawHeader = true
			continue
		}

		key, value, ok := splitKeyValue(line)

		if !inSteps {
			if !ok {
				return nil, fmt.Errorf("line %d: %w: %q", n+1, ErrInvalidLine, line)
			}
			if key == "steps" && value == "" {
				inSteps = true
				continue
			}
			switch key {
			case "name":
				def.Name = value
			case "description":
				def.Description = value
			case "autorun":
				if value != "" {
					def.Autorun = AutorunSetting{Declared: true, True: value == "true", Raw: value}
				}
			case "lastRun":
				def.LastRun = value
			}
			// Other keys are collected by the grammar but unused.
			continue
		}

		if !ok {
			return nil, fmt.Errorf("line %d: %w: %q", n+1, ErrInvalidParamLine, line)
		}
		if key == "type" {
			switch value {
			case "search", "transform", "write":
			default:
				return nil, fmt.Errorf("line %d: %w: %q", n+1, ErrUnknownStepType, value)
			}
			current = &rawStep{typ: value, line: n + 1, params: make(map[string]string)}
			steps = append(steps, current)
			continue
		}
		if current == nil {
			return nil, fmt.Errorf("line %d: %w: %q", n+1, ErrParamBeforeType, line)
		}
		current.params[key] = value
	}

	if !sawHeader {
		return nil, ErrEmptyDefinition
	}
	if def.Name == "" {
		return nil, ErrMissingName
	}
	if def.Description == "" {
		return nil, ErrMissingDescription
	}
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}

	for _, raw := range steps {
		step, err := buildStep(raw)
		if err != nil {
			return nil, err
		}
		def.Steps = append(def.Steps, step)
	}
	return def, nil
}

// skippable reports whether a trimmed line carries no content: blank
// lines and single-line HTML comments.
func skippable(line string) bool {
	if line == "" {
		return true
	}
	return strings.HasPrefix(line, "<!--") && strings.HasSuffix(line, "-->")
}

// splitKeyValue matches a `key: value` line, tolerating an optional
// leading dash. Values may be double-quoted; the quotes are stripped
// when both ends carry one.
func splitKeyValue(line string) (key, value string, ok bool) {
	if strings.HasPrefix(line, "-") {
		line = strings.TrimSpace(strings.TrimPrefix(line, "-"))
	}
	m := keyValue.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return m[1], unquote(strings.TrimSpace(m[2])), true
}

func unquote(v string) string {
	if len(v) >= 2 && strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`) {
		return v[1 : len(v)-1]
	}
	return v
}

func buildStep(raw *rawStep) (Step, error) {
	switch raw.typ {
	case "search":
		return SearchStep{
			SourceFolder: raw.params["sourceFolder"],
			Query:        raw.params["query"],
		}, nil
	case "transform":
		prompt, promptFile := raw.params["prompt"], raw.params["promptFile"]
		if (prompt == "") == (promptFile == "") {
			return nil, fmt.Errorf("line %d: %w", raw.line, ErrPromptSource)
		}
		return TransformStep{Prompt: prompt, PromptFile: promptFile}, nil
	case "write":
		return WriteStep{TargetFile: raw.params["targetFile"]}, nil
	}
	return nil, fmt.Errorf("line %d: %w: %q", raw.line, ErrUnknownStepType, raw.typ)
}

// IsFlow reports whether text begins with the flow header, without
// parsing the rest. Used to sniff candidate documents cheaply.
func IsFlow(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if skippable(line) {
			continue
		}
		return strings.EqualFold(line, header)
	}
	return false
}
