package harness

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/revlog/internal/versioned"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Flow contains the writes, executed in order.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the reads after the flow has run.
	Assertions []Assertion `yaml:"assertions"`
}

// FlowStep is one write made by one agent at one timestamp.
type FlowStep struct {
	// Op is "create", "update", or "delete".
	Op string `yaml:"op"`

	// Kind is the entry type name, e.g. "coin".
	Kind string `yaml:"kind"`

	// As is the seed of the writing agent. Defaults to 1.
	As int `yaml:"as,omitempty"`

	// At is the timestamp of the write in milliseconds.
	At int64 `yaml:"at"`

	// Ref names the address this step produces, if it succeeds.
	Ref string `yaml:"ref,omitempty"`

	// Original and Previous are refs (update and delete only).
	Original string `yaml:"original,omitempty"`
	Previous string `yaml:"previous,omitempty"`

	// Entry is the payload for create and update.
	Entry map[string]any `yaml:"entry,omitempty"`

	// Expect is the protocol error code this step must fail with.
	// If empty, the step must succeed.
	Expect string `yaml:"expect,omitempty"`
}

// Assertion validates a read after the flow.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Kind is the entry type name the read runs against.
	Kind string `yaml:"kind"`

	// Ref is the original the read concerns (not used by index reads).
	Ref string `yaml:"ref,omitempty"`

	// Author selects an author index by agent seed. Zero means the global
	// index.
	Author int `yaml:"author,omitempty"`

	// Expect lists the refs the read must return, in order.
	Expect []string `yaml:"expect"`
}

// Assertion type constants.
const (
	AssertLatest       = "latest"
	AssertHistory      = "history"
	AssertDeletes      = "deletes"
	AssertOldestDelete = "oldest_delete"
	AssertIndex        = "index"
	AssertLiveIndex    = "live_index"
)

// Flow step operations.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

var errorCodes = []string{
	string(versioned.CodeNotFound),
	string(versioned.CodeMalformedLink),
	string(versioned.CodeMalformedDetails),
	string(versioned.CodePolicyViolation),
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and refs are
// bound before use.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	bound := map[string]bool{}
	for i, step := range s.Flow {
		if err := validateStep(i, &step, bound); err != nil {
			return err
		}
		if step.Ref != "" {
			if bound[step.Ref] {
				return fmt.Errorf("flow[%d]: ref %q is already bound", i, step.Ref)
			}
			bound[step.Ref] = true
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion, bound); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(i int, step *FlowStep, bound map[string]bool) error {
	if step.Kind == "" {
		return fmt.Errorf("flow[%d]: kind is required", i)
	}
	if step.At <= 0 {
		return fmt.Errorf("flow[%d]: at must be positive", i)
	}
	if step.As < 0 || step.As > 255 {
		return fmt.Errorf("flow[%d]: as must be an agent seed in 1..255", i)
	}
	if step.Expect != "" && !slices.Contains(errorCodes, step.Expect) {
		return fmt.Errorf("flow[%d]: unknown error code %q", i, step.Expect)
	}
	if step.Expect != "" && step.Ref != "" {
		return fmt.Errorf("flow[%d]: a failing step cannot bind a ref", i)
	}

	refs := []string{step.Original, step.Previous}
	switch step.Op {
	case OpCreate:
		if step.Entry == nil {
			return fmt.Errorf("flow[%d]: entry is required for create", i)
		}
		refs = nil
	case OpUpdate:
		if step.Original == "" || step.Previous == "" || step.Entry == nil {
			return fmt.Errorf("flow[%d]: update requires original, previous, and entry", i)
		}
	case OpDelete:
		if step.Original == "" {
			return fmt.Errorf("flow[%d]: original is required for delete", i)
		}
		refs = refs[:1]
	default:
		return fmt.Errorf("flow[%d]: unknown op %q", i, step.Op)
	}

	for _, ref := range refs {
		if !bound[ref] {
			return fmt.Errorf("flow[%d]: ref %q is not bound by an earlier step", i, ref)
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, bound map[string]bool) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if a.Kind == "" {
		return fmt.Errorf("assertions[%d]: kind is required", index)
	}

	switch a.Type {
	case AssertLatest, AssertHistory, AssertDeletes, AssertOldestDelete:
		if a.Ref == "" {
			return fmt.Errorf("assertions[%d]: ref is required for %s", index, a.Type)
		}
	case AssertIndex, AssertLiveIndex:
		if a.Ref != "" {
			return fmt.Errorf("assertions[%d]: ref is not used by %s", index, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	if (a.Type == AssertLatest || a.Type == AssertOldestDelete) && len(a.Expect) > 1 {
		return fmt.Errorf("assertions[%d]: %s expects at most one ref", index, a.Type)
	}

	for _, ref := range append([]string{a.Ref}, a.Expect...) {
		if ref != "" && !bound[ref] {
			return fmt.Errorf("assertions[%d]: ref %q is not bound by the flow", index, ref)
		}
	}
	return nil
}
