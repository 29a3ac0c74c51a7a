package harness

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/synth/internal/synthetic"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Path     string // Child-index path of the node checked
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s at %q\n", e.Type, e.Path)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)

	return buf.String()
}

// EvaluateAssertions runs each assertion against doc and returns the
// failure messages in order.
func EvaluateAssertions(doc *synthetic.Document, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		if err := evaluateAssertion(doc, a); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluateAssertion(doc *synthetic.Document, a Assertion) error {
	if a.Type == AssertChildrenCount && a.Path == "" {
		return checkCount(a, len(doc.Children))
	}

	node, err := resolveNode(doc, a.Path)
	if err != nil {
		return &AssertionError{Type: a.Type, Path: a.Path, Expected: "node to exist", Actual: err.Error()}
	}

	switch a.Type {
	case AssertElementIs:
		el, ok := node.(*synthetic.Element)
		if !ok {
			return &AssertionError{Type: a.Type, Path: a.Path, Expected: "element " + a.Is, Actual: describe(node)}
		}
		if el.Is != a.Is {
			return &AssertionError{Type: a.Type, Path: a.Path, Expected: a.Is, Actual: el.Is}
		}
		return nil

	case AssertTextEquals:
		text, ok := node.(*synthetic.Text)
		if !ok {
			return &AssertionError{Type: a.Type, Path: a.Path, Expected: fmt.Sprintf("text %q", a.Value), Actual: describe(node)}
		}
		if text.Value != a.Value {
			return &AssertionError{Type: a.Type, Path: a.Path, Expected: fmt.Sprintf("%q", a.Value), Actual: fmt.Sprintf("%q", text.Value)}
		}
		return nil

	case AssertStyleEquals:
		var style synthetic.KeyValue
		switch n := node.(type) {
		case *synthetic.Element:
			style = n.Style
		case *synthetic.Text:
			style = n.Style
		}
		return checkProperty(a, style)

	case AssertAttributeEquals:
		el, ok := node.(*synthetic.Element)
		if !ok {
			return &AssertionError{Type: a.Type, Path: a.Path, Expected: "element with attributes", Actual: describe(node)}
		}
		return checkProperty(a, el.Attributes)

	case AssertChildrenCount:
		return checkCount(a, len(synthetic.ChildrenOf(node)))

	default:
		return &AssertionError{Type: a.Type, Path: a.Path, Expected: "known assertion type", Actual: a.Type}
	}
}

func checkCount(a Assertion, n int) error {
	if n != a.Count {
		return &AssertionError{
			Type:     a.Type,
			Path:     a.Path,
			Expected: fmt.Sprintf("%d children", a.Count),
			Actual:   fmt.Sprintf("%d children", n),
		}
	}
	return nil
}

func checkProperty(a Assertion, values synthetic.KeyValue) error {
	actual, ok := values[a.Property]
	if !ok {
		return &AssertionError{
			Type:     a.Type,
			Path:     a.Path,
			Expected: fmt.Sprintf("%s = %v", a.Property, a.Value),
			Actual:   fmt.Sprintf("%s not set", a.Property),
		}
	}
	equal, err := valuesEqual(actual, a.Value)
	if err != nil {
		return &AssertionError{Type: a.Type, Path: a.Path, Expected: fmt.Sprintf("%v", a.Value), Actual: err.Error()}
	}
	if !equal {
		return &AssertionError{
			Type:     a.Type,
			Path:     a.Path,
			Expected: fmt.Sprintf("%s = %v", a.Property, a.Value),
			Actual:   fmt.Sprintf("%s = %v", a.Property, actual),
		}
	}
	return nil
}

// valuesEqual compares through canonical JSON so YAML ints match the
// int64 values the compiler produces.
func valuesEqual(actual, expected any) (bool, error) {
	a, err := synthetic.MarshalCanonical(actual)
	if err != nil {
		return false, fmt.Errorf("actual value: %w", err)
	}
	e, err := synthetic.MarshalCanonical(expected)
	if err != nil {
		return false, fmt.Errorf("expected value: %w", err)
	}
	return string(a) == string(e), nil
}

// parsePath splits "0.1.2" into child indices. The empty path is valid.
func parsePath(path string) ([]int, error) {
	if path == "" {
		return nil, nil
	}
	parts := strings.Split(path, ".")
	indices := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid path %q: segment %q is not a child index", path, part)
		}
		indices[i] = n
	}
	return indices, nil
}

func resolveNode(doc *synthetic.Document, path string) (synthetic.VisibleNode, error) {
	indices, err := parsePath(path)
	if err != nil {
		return nil, err
	}
	node := synthetic.At(doc, indices...)
	if node == nil {
		return nil, fmt.Errorf("no node at path %q", path)
	}
	return node, nil
}

func describe(n synthetic.VisibleNode) string {
	switch node := n.(type) {
	case *synthetic.Element:
		return "element " + node.Is
	case *synthetic.Text:
		return fmt.Sprintf("text %q", node.Value)
	default:
		return fmt.Sprintf("%T", n)
	}
}
