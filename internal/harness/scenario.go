package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines an evaluation test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Specs lists paths to CUE files declaring modules.
	// Paths are relative to the scenario file location.
	Specs []string `yaml:"specs"`

	// Module is the id of the module to evaluate.
	Module string `yaml:"module"`

	// Assertions validate the evaluated document.
	// Supported types: element_is, text_equals, style_equals,
	// attribute_equals, children_count
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// ExpectError is the engine error code evaluation must fail with.
	// Scenarios with ExpectError carry no assertions.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Assertion validates one node of the evaluated document.
type Assertion struct {
	// Type specifies the assertion type:
	// - "element_is": check the element's tag
	// - "text_equals": check a text node's value
	// - "style_equals": check one style property
	// - "attribute_equals": check one attribute
	// - "children_count": check the number of children
	Type string `yaml:"type"`

	// Path addresses the node by child indices ("0.1"). Empty addresses the
	// document itself (children_count only).
	Path string `yaml:"path"`

	// Is is the expected tag (element_is).
	Is string `yaml:"is,omitempty"`

	// Property is the style or attribute name.
	Property string `yaml:"property,omitempty"`

	// Value is the expected text, style or attribute value.
	Value any `yaml:"value,omitempty"`

	// Count is the expected number of children (children_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertElementIs       = "element_is"
	AssertTextEquals      = "text_equals"
	AssertStyleEquals     = "style_equals"
	AssertAttributeEquals = "attribute_equals"
	AssertChildrenCount   = "children_count"
)

// LoadScenario reads and parses a scenario YAML file, resolving spec
// paths relative to the file's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving spec paths relative to the provided base path.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i, specPath := range scenario.Specs {
		if !filepath.IsAbs(specPath) && basePath != "" {
			scenario.Specs[i] = filepath.Join(basePath, specPath)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Specs) == 0 {
		return fmt.Errorf("specs list is required and must be non-empty")
	}

	if s.Module == "" {
		return fmt.Errorf("module is required")
	}

	if s.ExpectError == "" && len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required unless expect_error is set")
	}
	if s.ExpectError != "" && len(s.Assertions) > 0 {
		return fmt.Errorf("assertions cannot be combined with expect_error")
	}

	for _, specPath := range s.Specs {
		if _, err := os.Stat(specPath); os.IsNotExist(err) {
			return fmt.Errorf("spec file not found: %s", specPath)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if _, err := parsePath(a.Path); err != nil {
		return fmt.Errorf("assertions[%d]: %w", index, err)
	}

	switch a.Type {
	case AssertElementIs:
		if a.Is == "" {
			return fmt.Errorf("assertions[%d]: is is required for element_is", index)
		}
	case AssertTextEquals:
		if _, ok := a.Value.(string); !ok {
			return fmt.Errorf("assertions[%d]: value must be a string for text_equals", index)
		}
	case AssertStyleEquals, AssertAttributeEquals:
		if a.Property == "" {
			return fmt.Errorf("assertions[%d]: property is required for %s", index, a.Type)
		}
	case AssertChildrenCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for children_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	if a.Path == "" && a.Type != AssertChildrenCount {
		return fmt.Errorf("assertions[%d]: path is required for %s", index, a.Type)
	}

	return nil
}
