package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// StepType tags the three CBT step shapes.
type StepType string

const (
	StepSingleSelect StepType = "single-select"
	StepLongText     StepType = "long-text"
	StepEvidence     StepType = "evidence"
)

var ErrUnknownStepType = errors.New("unknown cbt step type")

// Step is a closed sum type: only SingleSelectStep, LongTextStep and
// EvidenceStep implement it. Consumers switch on the concrete value type and
// must handle all three. Pointers to the variants satisfy the interface too
// but are not valid steps; codecs and renderers reject them with
// ErrUnknownStepType.
type Step interface {
	StepType() StepType
	StepID() string
	isStep()
}

type StepHeader struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Prompt string `json:"prompt"`
}

func (h StepHeader) StepID() string { return h.ID }

type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type SingleSelectStep struct {
	StepHeader
	Options []Option `json:"options"`
}

func (SingleSelectStep) StepType() StepType { return StepSingleSelect }
func (SingleSelectStep) isStep()            {}

type LongTextStep struct {
	StepHeader
	Placeholder string `json:"placeholder,omitempty"`
}

func (LongTextStep) StepType() StepType { return StepLongText }
func (LongTextStep) isStep()            {}

type EvidencePlaceholders struct {
	Support string `json:"support"`
	Against string `json:"against"`
}

type EvidenceStep struct {
	StepHeader
	Placeholders EvidencePlaceholders `json:"placeholders"`
}

func (EvidenceStep) StepType() StepType { return StepEvidence }
func (EvidenceStep) isStep()            {}

// Steps is an ordered list of CBT steps with a tagged JSON encoding:
// every element carries "type".
type Steps []Step

func (s Steps) MarshalJSON() ([]byte, error) {
	out := make([]json.RawMessage, 0, len(s))
	for _, step := range s {
		b, err := marshalStep(step)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return json.Marshal(out)
}

func (s *Steps) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	steps := make(Steps, 0, len(raw))
	for i, r := range raw {
		step, err := UnmarshalStep(r)
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		steps = append(steps, step)
	}
	*s = steps
	return nil
}

func marshalStep(step Step) ([]byte, error) {
	switch v := step.(type) {
	case SingleSelectStep:
		return withType(StepSingleSelect, v)
	case LongTextStep:
		return withType(StepLongText, v)
	case EvidenceStep:
		return withType(StepEvidence, v)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownStepType, step)
	}
}

func withType(t StepType, v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, err
	}
	fields["type"], _ = json.Marshal(t)
	return json.Marshal(fields)
}

// UnmarshalStep decodes one tagged step.
func UnmarshalStep(b []byte) (Step, error) {
	var head struct {
		Type StepType `json:"type"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return nil, err
	}
	switch head.Type {
	case StepSingleSelect:
		var v SingleSelectStep
		if err := json.Unmarshal(b, &v); err != nil {
			return nil, err
		}
		return v, nil
	case StepLongText:
		var v LongTextStep
		if err := json.Unmarshal(b, &v); err != nil {
			return nil, err
		}
		return v, nil
	case StepEvidence:
		var v EvidenceStep
		if err := json.Unmarshal(b, &v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStepType, head.Type)
	}
}

type CbtScenario struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Difficulty    int      `json:"difficulty"`
	DurationLabel string   `json:"durationLabel"`
	CoverColor    string   `json:"coverColor"`
	Tags          []string `json:"tags"`
	Steps         Steps    `json:"steps,omitempty"`
	Finished      bool     `json:"finished,omitempty"`
}

type Cbt struct {
	Scenarios []CbtScenario `json:"scenarios"`
}
