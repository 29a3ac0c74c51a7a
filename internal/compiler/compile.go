package compiler

import (
	"fmt"
	"strings"
	"unicode"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/synth/internal/graph"
	"github.com/roach88/synth/internal/pc"
)

// CompileGraph compiles every module under the top-level "module" field
// and returns the dependency graph over them.
//
//	module: "pages/home": {
//		uri: "file:///proj/pages/home.pc"
//		children: [...]
//	}
func CompileGraph(v cue.Value) (*graph.Graph, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	modulesVal := v.LookupPath(cue.ParsePath("module"))
	if !modulesVal.Exists() {
		return nil, &CompileError{
			Field:   "module",
			Message: "at least one module is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := modulesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var deps []*graph.Dependency
	for iter.Next() {
		dep, err := CompileModule(iter.Selector().Unquoted(), iter.Value())
		if err != nil {
			return nil, err
		}
		deps = append(deps, dep)
	}

	return graph.New(deps...), nil
}

// CompileModule compiles one module struct with fields uri and children.
// Only top-level children may be components; overrides may not appear at
// the top level.
func CompileModule(id string, v cue.Value) (*graph.Dependency, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if err := checkID("module", id, v.Pos()); err != nil {
		return nil, err
	}

	uriVal := v.LookupPath(cue.ParsePath("uri"))
	if !uriVal.Exists() {
		return nil, &CompileError{
			Field:   fmt.Sprintf("module.%s.uri", id),
			Message: "uri is required",
			Pos:     v.Pos(),
		}
	}
	uri, err := uriVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}

	children, err := compileChildren(v, fmt.Sprintf("module.%s", id), scopeModule)
	if err != nil {
		return nil, err
	}

	return &graph.Dependency{
		URI:    uri,
		Module: &pc.Module{ID: id, Children: children},
	}, nil
}

// CompileNode compiles a single node struct. The kind field selects the
// variant:
//
//	{kind: "element", id: "title", is: "h1", children: [{kind: "text", id: "t", value: "Hello"}]}
func CompileNode(v cue.Value) (pc.Node, error) {
	return compileNode(v, "node", scopeModule)
}

// scope tracks where in the tree a node list sits, which decides the kinds
// it may contain.
type scope int

const (
	scopeModule scope = iota
	scopeModuleFragment
	scopeNested
)

func compileChildren(v cue.Value, field string, s scope) ([]pc.Node, error) {
	childrenVal := v.LookupPath(cue.ParsePath("children"))
	if !childrenVal.Exists() {
		return nil, nil
	}

	iter, err := childrenVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var children []pc.Node
	for i := 0; iter.Next(); i++ {
		childField := fmt.Sprintf("%s.children[%d]", field, i)
		child, err := compileNode(iter.Value(), childField, s)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

func compileNode(v cue.Value, field string, s scope) (pc.Node, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	kindVal := v.LookupPath(cue.ParsePath("kind"))
	if !kindVal.Exists() {
		return nil, &CompileError{Field: field + ".kind", Message: "kind is required", Pos: v.Pos()}
	}
	kindStr, err := kindVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	kind := pc.Kind(kindStr)

	id, err := requiredString(v, field, "id")
	if err != nil {
		return nil, err
	}
	if err := checkID(field+".id", id, v.Pos()); err != nil {
		return nil, err
	}

	switch kind {
	case pc.KindComponent:
		if s != scopeModule {
			return nil, &CompileError{
				Field:   field,
				Message: fmt.Sprintf("component %q must be declared at module level", id),
				Pos:     v.Pos(),
			}
		}
		base, err := compileBase(v, field, id)
		if err != nil {
			return nil, err
		}
		is, err := requiredString(v, field, "is")
		if err != nil {
			return nil, err
		}
		extends, err := optionalBool(v, "extends")
		if err != nil {
			return nil, err
		}
		children, err := compileChildren(v, field, scopeNested)
		if err != nil {
			return nil, err
		}
		return &pc.Component{Base: base, Is: is, Extends: extends, Children: children}, nil

	case pc.KindElement:
		base, err := compileBase(v, field, id)
		if err != nil {
			return nil, err
		}
		is, err := requiredString(v, field, "is")
		if err != nil {
			return nil, err
		}
		children, err := compileChildren(v, field, scopeNested)
		if err != nil {
			return nil, err
		}
		return &pc.Element{Base: base, Is: is, Children: children}, nil

	case pc.KindInstance:
		base, err := compileBase(v, field, id)
		if err != nil {
			return nil, err
		}
		is, err := requiredString(v, field, "is")
		if err != nil {
			return nil, err
		}
		children, err := compileChildren(v, field, scopeNested)
		if err != nil {
			return nil, err
		}
		return &pc.ComponentInstance{Base: base, Is: is, Children: children}, nil

	case pc.KindText:
		base, err := compileBase(v, field, id)
		if err != nil {
			return nil, err
		}
		value, err := optionalString(v, "value")
		if err != nil {
			return nil, err
		}
		return &pc.TextNode{Base: base, Value: value}, nil

	case pc.KindFragment:
		inner := scopeNested
		if s != scopeNested {
			inner = scopeModuleFragment
		}
		children, err := compileChildren(v, field, inner)
		if err != nil {
			return nil, err
		}
		return &pc.Fragment{ID: id, Children: children}, nil

	case pc.KindOverride:
		if s != scopeNested {
			return nil, &CompileError{
				Field:   field,
				Message: fmt.Sprintf("override %q must belong to a component, element or instance", id),
				Pos:     v.Pos(),
			}
		}
		return compileOverride(v, field, id)

	default:
		return nil, &CompileError{
			Field:   field + ".kind",
			Message: fmt.Sprintf("unknown node kind %q", kindStr),
			Pos:     kindVal.Pos(),
		}
	}
}

func compileBase(v cue.Value, field, id string) (pc.Base, error) {
	base := pc.Base{ID: id}

	var err error
	if base.Style, err = optionalKeyValue(v, field, "style"); err != nil {
		return base, err
	}
	if base.Attributes, err = optionalKeyValue(v, field, "attributes"); err != nil {
		return base, err
	}
	if base.Metadata, err = optionalKeyValue(v, field, "metadata"); err != nil {
		return base, err
	}
	if base.Label, err = optionalString(v, "label"); err != nil {
		return base, err
	}
	return base, nil
}

func compileOverride(v cue.Value, field, id string) (*pc.Override, error) {
	prop, err := requiredString(v, field, "property")
	if err != nil {
		return nil, err
	}
	name := pc.PropertyName(prop)
	if !pc.ValidProperties[name] {
		return nil, &CompileError{
			Field:   field + ".property",
			Message: fmt.Sprintf("unknown override property %q", prop),
			Pos:     v.Pos(),
		}
	}

	o := &pc.Override{ID: id, PropertyName: name}

	if o.VariantID, err = optionalString(v, "variant"); err != nil {
		return nil, err
	}

	targetVal := v.LookupPath(cue.ParsePath("target"))
	if targetVal.Exists() {
		iter, err := targetVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			segment, err := iter.Value().String()
			if err != nil {
				return nil, formatCUEError(err)
			}
			o.TargetIDPath = append(o.TargetIDPath, segment)
		}
	}

	if name == pc.PropChildren {
		if o.Children, err = compileChildren(v, field, scopeNested); err != nil {
			return nil, err
		}
		return o, nil
	}

	valueVal := v.LookupPath(cue.ParsePath("value"))
	if !valueVal.Exists() {
		return nil, &CompileError{
			Field:   field + ".value",
			Message: fmt.Sprintf("%s override requires a value", prop),
			Pos:     v.Pos(),
		}
	}
	value, err := decodeValue(valueVal, field+".value")
	if err != nil {
		return nil, err
	}
	if err := checkOverrideValue(name, value, field, valueVal.Pos()); err != nil {
		return nil, err
	}
	o.Value = value
	return o, nil
}

// checkOverrideValue enforces the value shape each property expects.
func checkOverrideValue(name pc.PropertyName, value any, field string, pos token.Pos) error {
	var ok bool
	switch name {
	case pc.PropStyle, pc.PropAttributes:
		_, ok = value.(pc.KeyValue)
	case pc.PropText, pc.PropLabel:
		_, ok = value.(string)
	default:
		ok = true
	}
	if ok {
		return nil
	}
	return &CompileError{
		Field:   field + ".value",
		Message: fmt.Sprintf("invalid value for %s override: %T", name, value),
		Pos:     pos,
	}
}

// decodeValue converts a concrete CUE value into the node model's value
// domain: string, bool, int64, []any, map[string]any or nil.
// Floats are forbidden.
func decodeValue(v cue.Value, field string) (any, error) {
	switch v.Kind() {
	case cue.NullKind:
		return nil, nil
	case cue.StringKind:
		return v.String()
	case cue.BoolKind:
		return v.Bool()
	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return n, nil
	case cue.FloatKind:
		return nil, &CompileError{
			Field:   field,
			Message: "float values are forbidden - use int or string instead",
			Pos:     v.Pos(),
		}
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		list := []any{}
		for i := 0; iter.Next(); i++ {
			item, err := decodeValue(iter.Value(), fmt.Sprintf("%s[%d]", field, i))
			if err != nil {
				return nil, err
			}
			list = append(list, item)
		}
		return list, nil
	case cue.StructKind:
		iter, err := v.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		obj := pc.KeyValue{}
		for iter.Next() {
			item, err := decodeValue(iter.Value(), field+"."+iter.Label())
			if err != nil {
				return nil, err
			}
			obj[iter.Label()] = item
		}
		return obj, nil
	default:
		if err := v.Err(); err != nil {
			return nil, formatCUEError(err)
		}
		return nil, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("value must be concrete, got %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
}

func optionalKeyValue(v cue.Value, field, name string) (pc.KeyValue, error) {
	val := v.LookupPath(cue.ParsePath(name))
	if !val.Exists() {
		return nil, nil
	}
	decoded, err := decodeValue(val, field+"."+name)
	if err != nil {
		return nil, err
	}
	kv, ok := decoded.(pc.KeyValue)
	if !ok {
		return nil, &CompileError{
			Field:   field + "." + name,
			Message: fmt.Sprintf("%s must be an object", name),
			Pos:     val.Pos(),
		}
	}
	return kv, nil
}

func requiredString(v cue.Value, field, name string) (string, error) {
	val := v.LookupPath(cue.ParsePath(name))
	if !val.Exists() {
		return "", &CompileError{
			Field:   field + "." + name,
			Message: name + " is required",
			Pos:     v.Pos(),
		}
	}
	s, err := val.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	if s == "" {
		return "", &CompileError{
			Field:   field + "." + name,
			Message: name + " must be non-empty",
			Pos:     val.Pos(),
		}
	}
	return s, nil
}

func optionalString(v cue.Value, name string) (string, error) {
	val := v.LookupPath(cue.ParsePath(name))
	if !val.Exists() {
		return "", nil
	}
	s, err := val.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func optionalBool(v cue.Value, name string) (bool, error) {
	val := v.LookupPath(cue.ParsePath(name))
	if !val.Exists() {
		return false, nil
	}
	b, err := val.Bool()
	if err != nil {
		return false, formatCUEError(err)
	}
	return b, nil
}

// checkID rejects ids that cannot be used as instance path segments.
func checkID(field, id string, pos token.Pos) error {
	if id == "" {
		return &CompileError{Field: field, Message: "id must be non-empty", Pos: pos}
	}
	if strings.IndexFunc(id, unicode.IsSpace) >= 0 {
		return &CompileError{
			Field:   field,
			Message: fmt.Sprintf("id %q must not contain whitespace", id),
			Pos:     pos,
		}
	}
	return nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
