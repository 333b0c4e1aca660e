package syntax

import (
	"fmt"
	"sort"
)

// Coerce converts a host value to an expression for ergonomic assignment:
// strings, bools, integers, floats, nil, slices, ordered []Pair, and string
// maps (sorted by key for determinism). Expressions pass through unchanged.
// A string meant as an identifier must be passed as *Identifier, never as a
// bare string.
func Coerce(value any) (Expr, error) {
	switch v := value.(type) {
	case Expr:
		return v, nil
	case nil:
		return NewNull(), nil
	case string:
		return NewString(v), nil
	case bool:
		return NewBool(v), nil
	case int:
		return NewInt(int64(v)), nil
	case int64:
		return NewInt(v), nil
	case float64:
		return NewFloat(v), nil
	case []any:
		list := &List{}

		for _, item := range v {
			elem, err := Coerce(item)
			if err != nil {
				return nil, err
			}

			list.Elements = append(list.Elements, elem)
		}

		return list, nil
	case []Pair:
		return NewAttrSet(v...)
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}

		sort.Strings(keys)

		pairs := make([]Pair, 0, len(keys))
		for _, key := range keys {
			pairs = append(pairs, Pair{Key: key, Value: v[key]})
		}

		return NewAttrSet(pairs...)
	default:
		return nil, fmt.Errorf("%w: %T", ErrCoerce, value)
	}
}
