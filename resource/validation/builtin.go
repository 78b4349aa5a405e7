package validation

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	validator "gopkg.in/go-playground/validator.v9"
)

// AddBuiltin adds the custom rules of this package.
func AddBuiltin(v *Validator) {
	v.Add("notblank", notBlank)
	v.Add("div", divisible)
}

func notBlank(input interface{}, param string) error {
	s, ok := input.(string)
	if !ok {
		return InvalidRuleError{Reason: fmt.Sprintf("notblank: cannot check %T", input)}
	}
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("value must not be blank")
	}
	return nil
}

func divisible(input interface{}, param string) error {
	n, err := strconv.Atoi(param)
	if err != nil {
		return numErr("div", err)
	}
	if n == 0 {
		return InvalidRuleError{Reason: "div: division by zero"}
	}
	v := reflect.Indirect(reflect.ValueOf(input))
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v.Int()%int64(n) != 0 {
			return fmt.Errorf("value must be divisible by %d", n)
		}
		return nil
	case reflect.Float32, reflect.Float64:
		if math.Mod(v.Float(), float64(n)) != 0 {
			return fmt.Errorf("value must be divisible by %d", n)
		}
		return nil
	default:
		return InvalidRuleError{Reason: fmt.Sprintf("div: cannot check %T", input)}
	}
}

func builtinMessage(fe validator.FieldError) error {
	p := fe.Param()
	switch fe.Tag() {
	case "min", "gte":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Errorf("length must be at least %s characters", p)
		case reflect.Slice, reflect.Map, reflect.Array:
			return fmt.Errorf("length must be %s or more", p)
		}
		return fmt.Errorf("must be %s or more", p)
	case "max", "lte":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Errorf("length must be at most %s characters", p)
		case reflect.Slice, reflect.Map, reflect.Array:
			return fmt.Errorf("length must be %s or less", p)
		}
		return fmt.Errorf("must be %s or less", p)
	case "gt":
		return fmt.Errorf("must be more than %s", p)
	case "lt":
		return fmt.Errorf("must be less than %s", p)
	case "len":
		return fmt.Errorf("length must be %s", p)
	case "oneof":
		return oneofErr(strings.Split(p, " "))
	case "required":
		return fmt.Errorf("value must be set")
	case "ip":
		return fmt.Errorf("%v is not a valid IP address", fe.Value())
	case "hostname":
		return fmt.Errorf("%v is not a valid hostname", fe.Value())
	}
	return fmt.Errorf("failed on rule %s", fe.Tag())
}

func oneofErr(values []string) error {
	if len(values) == 1 {
		return fmt.Errorf("value must be %s", values[0])
	}
	first := values[:len(values)-1]
	remain := values[len(values)-1]
	return fmt.Errorf("value must be %s or %s", strings.Join(first, ", "), remain)
}

func numErr(fn string, err error) error {
	if nerr, ok := err.(*strconv.NumError); ok {
		return InvalidRuleError{Reason: fmt.Sprintf("%s: %s: %v", fn, nerr.Func, nerr.Err.Error())}
	}
	return InvalidRuleError{Reason: fmt.Sprintf("%s: %s", fn, err.Error())}
}
