// Package validation validates parameter values against rule strings such
// as "min=1,max=32".
//
// Rules are evaluated by validator.v9. Custom rules can be added with Add;
// their error is reported as-is when the rule fails.
package validation

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
	validator "gopkg.in/go-playground/validator.v9"
)

// Rule is a custom validation rule. It returns an error describing why the
// value is not valid.
type Rule func(value interface{}, param string) error

// A Validator maintains a list of registered validation rules.
type Validator struct {
	validate *validator.Validate
	rules    map[string]Rule
}

// New creates a new validator with the builtin rules of validator.v9 and the
// custom rules from this package.
func New() *Validator {
	v := &Validator{
		validate: validator.New(),
		rules:    make(map[string]Rule),
	}
	AddBuiltin(v)
	return v
}

// An InvalidRuleError is returned when the rule cannot be processed. This
// indicates a programmer error, rather than user error.
type InvalidRuleError struct {
	Reason string
}

func (e InvalidRuleError) Error() string {
	return fmt.Sprintf("invalid rule: %s", e.Reason)
}

// supported lists the validator.v9 tags rules may use.
var supported = map[string]bool{
	"dive":     true,
	"gt":       true,
	"gte":      true,
	"hostname": true,
	"ip":       true,
	"len":      true,
	"lt":       true,
	"lte":      true,
	"max":      true,
	"min":      true,
	"oneof":    true,
	"required": true,
}

// Add registers a new validation rule.
//
// Not safe for concurrent access.
//
// Panics if a rule with the same name has already been registered.
func (v *Validator) Add(name string, rule Rule) {
	if _, ok := v.rules[name]; ok {
		panic(fmt.Sprintf("A rule with name %q has already been registered", name))
	}
	err := v.validate.RegisterValidation(name, func(fl validator.FieldLevel) bool {
		return rule(fl.Field().Interface(), fl.Param()) == nil
	})
	if err != nil {
		panic(fmt.Sprintf("Register rule %q: %v", name, err))
	}
	v.rules[name] = rule
}

// Validate validates the given input value against rules.
//
// Rules must be provided in a comma separated list (without space):
//   rule1,rule2
//
// Additional parameters can be provided to rules:
//   min=3,max=10
//
// If rules is empty, no validation is performed. All failing rules are
// combined into the returned error.
func (v *Validator) Validate(value interface{}, rules string) error {
	if rules == "" {
		return nil
	}
	for i, p := range strings.Split(rules, ",") {
		name := strings.SplitN(p, "=", 2)[0]
		if name == "" {
			return InvalidRuleError{Reason: fmt.Sprintf("name not set for rule %d", i)}
		}
		if !supported[name] && v.rules[name] == nil {
			return InvalidRuleError{Reason: fmt.Sprintf("no such rule: %q", name)}
		}
	}

	err := v.validate.Var(value, rules)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return InvalidRuleError{Reason: err.Error()}
	}
	var out error
	for _, fe := range verrs {
		out = multierr.Append(out, v.message(fe))
	}
	return out
}

func (v *Validator) message(fe validator.FieldError) error {
	if rule, ok := v.rules[fe.Tag()]; ok {
		if err := rule(fe.Value(), fe.Param()); err != nil {
			return err
		}
	}
	return builtinMessage(fe)
}
