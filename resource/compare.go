package resource

import (
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Equal returns true if the desired value matches the actual value from a
// snapshot.
//
// Numbers are compared by value regardless of their Go type, so a float64
// decoded from JSON equals an int from a test or a default.
func (f Field) Equal(want, got interface{}) bool {
	if f.Fold {
		ws, wok := want.(string)
		gs, gok := got.(string)
		if wok && gok {
			return strings.EqualFold(ws, gs)
		}
	}
	opts := []cmp.Option{cmpopts.EquateEmpty()}
	if f.Unordered {
		opts = append(opts, cmpopts.SortSlices(func(a, b interface{}) bool {
			return fmt.Sprint(a) < fmt.Sprint(b)
		}))
	}
	return cmp.Equal(Normalize(want), Normalize(got), opts...)
}

// Normalize converts a value to the representation used for comparison:
// numbers become float64, slices become []interface{} and maps become
// map[string]interface{}.
func Normalize(v interface{}) interface{} {
	switch vv := v.(type) {
	case int:
		return float64(vv)
	case int32:
		return float64(vv)
	case int64:
		return float64(vv)
	case uint:
		return float64(vv)
	case uint32:
		return float64(vv)
	case uint64:
		return float64(vv)
	case float32:
		return float64(vv)
	case []string:
		out := make([]interface{}, len(vv))
		for i, s := range vv {
			out[i] = s
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(vv))
		for i, e := range vv {
			out[i] = Normalize(e)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(vv))
		for k, e := range vv {
			out[k] = Normalize(e)
		}
		return out
	case Snapshot:
		return Normalize(map[string]interface{}(vv))
	}
	return v
}
