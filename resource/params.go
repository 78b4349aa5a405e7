package resource

import (
	"fmt"
	"sort"
	"strings"

	"github.com/func/flexconf/suggest"
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"go.uber.org/multierr"
)

// StateParam is the implicit parameter selecting the convergence target.
const StateParam = "state"

// A Validator validates parameter values against rules.
type Validator interface {
	Validate(value interface{}, rules string) error
}

// A Decoder turns raw parameters into a validated Input.
//
// The zero value decodes without running validation rules.
type Decoder struct {
	Validator Validator
}

// Decode decodes raw parameters for the resource type described by desc.
//
// Raw values may be plain Go values (as decoded from JSON) or cty values.
// Parameters set to nil are treated as not set.
func (dec *Decoder) Decode(desc *Descriptor, raw map[string]interface{}) (*Input, error) {
	in := &Input{State: Present, Desired: Desired{}}

	if s, ok := raw[StateParam]; ok && s != nil {
		str, ok := s.(string)
		if !ok {
			if cv, isCty := s.(cty.Value); isCty && cv.Type() == cty.String && cv.IsKnown() && !cv.IsNull() {
				str, ok = cv.AsString(), true
			}
		}
		switch State(str) {
		case Present, Absent:
			in.State = State(str)
		default:
			return nil, InvalidParameterError{Param: StateParam, Reason: "value must be present or absent"}
		}
	}

	canonical := make(map[string]string)
	names := make([]string, 0, len(desc.Params))
	for _, p := range desc.Params {
		canonical[p.Name] = p.Name
		names = append(names, p.Name)
		for _, a := range p.Aliases {
			canonical[a] = p.Name
		}
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make(map[string]interface{})
	var verr error
	for _, k := range keys {
		if k == StateParam {
			continue
		}
		name, ok := canonical[k]
		if !ok {
			reason := "unsupported parameter"
			if s := suggest.String(k, names); s != "" {
				reason += fmt.Sprintf(", did you mean %q?", s)
			}
			return nil, InvalidParameterError{Param: k, Reason: reason}
		}
		if isNull(raw[k]) {
			continue
		}
		if name != k && !isNull(raw[name]) {
			// Canonical name takes precedence over a legacy alias.
			continue
		}
		p, _ := desc.Param(name)
		v, err := coerce(raw[k], p.Type)
		if err != nil {
			return nil, InvalidParameterError{Param: k, Reason: err.Error()}
		}
		if s, ok := v.(string); ok && p.Ident && strings.TrimSpace(s) == "" {
			return nil, InvalidParameterError{Param: k, Reason: "value must not be empty or whitespace"}
		}
		if dec.Validator != nil && p.Validate != "" {
			if err := dec.Validator.Validate(v, p.Validate); err != nil {
				verr = multierr.Append(verr, errors.Wrap(err, k))
				continue
			}
		}
		values[name] = v
	}
	if verr != nil {
		// Rule failures of all parameters are reported together.
		return nil, InvalidParameterError{Reason: verr.Error()}
	}

	for _, p := range desc.Params {
		if p.Required {
			if _, ok := values[p.Name]; !ok {
				return nil, MissingParameterError{Params: []string{p.Name}}
			}
		}
	}

	sets := append([][]string{}, desc.Exclusive...)
	sets = append(sets, []string{desc.NameParam, desc.IDParam})
	if desc.Scope != nil {
		sets = append(sets, []string{desc.Scope.NameParam, desc.Scope.IDParam})
	}
	for _, set := range sets {
		var given []string
		for _, p := range set {
			if _, ok := values[p]; ok && p != "" {
				given = append(given, p)
			}
		}
		if len(given) > 1 {
			return nil, MutuallyExclusiveError{Params: given}
		}
	}

	take := func(param string) string {
		if param == "" {
			return ""
		}
		s, _ := values[param].(string)
		delete(values, param)
		return s
	}
	in.Ref = Ref{Name: take(desc.NameParam), ID: take(desc.IDParam)}
	if desc.Scope != nil {
		in.Scope = ScopeRef{
			Type: desc.Scope.Type,
			Ref:  Ref{Name: take(desc.Scope.NameParam), ID: take(desc.Scope.IDParam)},
		}
	}
	for k, v := range values {
		in.Desired[k] = v
	}

	if err := in.Check(desc); err != nil {
		return nil, err
	}
	return in, nil
}

// Check verifies the reference and scope of an input. It is run before any
// remote call is made.
func (in *Input) Check(desc *Descriptor) error {
	if in.Ref.Name != "" && in.Ref.ID != "" {
		return MutuallyExclusiveError{Params: nonEmpty(desc.NameParam, desc.IDParam)}
	}
	if in.Ref.IsZero() {
		return MissingParameterError{Params: nonEmpty(desc.NameParam, desc.IDParam)}
	}
	if blank(in.Ref.Name) {
		return InvalidParameterError{Param: desc.NameParam, Reason: "value must not be empty or whitespace"}
	}
	if blank(in.Ref.ID) {
		return InvalidParameterError{Param: desc.IDParam, Reason: "value must not be empty or whitespace"}
	}
	if desc.Scope == nil {
		return nil
	}
	sc := desc.Scope
	if in.Scope.Name != "" && in.Scope.ID != "" {
		return MutuallyExclusiveError{Params: []string{sc.NameParam, sc.IDParam}}
	}
	if blank(in.Scope.Name) {
		return InvalidParameterError{Param: sc.NameParam, Reason: "value must not be empty or whitespace"}
	}
	if blank(in.Scope.ID) {
		return InvalidParameterError{Param: sc.IDParam, Reason: "value must not be empty or whitespace"}
	}
	return nil
}

func nonEmpty(ss ...string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func isNull(v interface{}) bool {
	if v == nil {
		return true
	}
	if cv, ok := v.(cty.Value); ok {
		return cv.IsNull()
	}
	return false
}

// coerce converts v to the given type and returns its normalized Go value.
func coerce(v interface{}, ty cty.Type) (interface{}, error) {
	cv, err := ToCty(v)
	if err != nil {
		return nil, err
	}
	if ty != cty.NilType && ty != cty.DynamicPseudoType {
		cv, err = convert.Convert(cv, ty)
		if err != nil {
			return nil, err
		}
	}
	return FromCty(cv)
}

// ToCty converts a plain Go value to a cty value. cty values are returned
// as-is.
func ToCty(v interface{}) (cty.Value, error) {
	switch vv := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case cty.Value:
		return vv, nil
	case string:
		return cty.StringVal(vv), nil
	case bool:
		return cty.BoolVal(vv), nil
	case float64:
		return cty.NumberFloatVal(vv), nil
	case float32:
		return cty.NumberFloatVal(float64(vv)), nil
	case int:
		return cty.NumberIntVal(int64(vv)), nil
	case int64:
		return cty.NumberIntVal(vv), nil
	case []string:
		list := make([]interface{}, len(vv))
		for i, s := range vv {
			list[i] = s
		}
		return ToCty(list)
	case []interface{}:
		if len(vv) == 0 {
			return cty.EmptyTupleVal, nil
		}
		elems := make([]cty.Value, len(vv))
		for i, e := range vv {
			ev, err := ToCty(e)
			if err != nil {
				return cty.NilVal, errors.Wrapf(err, "index %d", i)
			}
			elems[i] = ev
		}
		return cty.TupleVal(elems), nil
	case map[string]interface{}:
		if len(vv) == 0 {
			return cty.EmptyObjectVal, nil
		}
		attrs := make(map[string]cty.Value, len(vv))
		for k, e := range vv {
			ev, err := ToCty(e)
			if err != nil {
				return cty.NilVal, errors.Wrapf(err, "key %q", k)
			}
			attrs[k] = ev
		}
		return cty.ObjectVal(attrs), nil
	}
	return cty.NilVal, errors.Errorf("unsupported value type %T", v)
}

// FromCty converts a cty value to its normalized Go value: strings, float64
// numbers, bools, []interface{} and map[string]interface{}.
func FromCty(v cty.Value) (interface{}, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsKnown() {
		return nil, errors.New("value is not known")
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil
	case ty == cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return f, nil
	case ty == cty.Bool:
		return v.True(), nil
	case ty.IsListType() || ty.IsSetType() || ty.IsTupleType():
		out := make([]interface{}, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			e, err := FromCty(ev)
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
		return out, nil
	case ty.IsMapType() || ty.IsObjectType():
		out := make(map[string]interface{})
		for it := v.ElementIterator(); it.Next(); {
			kv, ev := it.Element()
			e, err := FromCty(ev)
			if err != nil {
				return nil, err
			}
			out[kv.AsString()] = e
		}
		return out, nil
	}
	return nil, errors.Errorf("unsupported type %s", ty.FriendlyName())
}
