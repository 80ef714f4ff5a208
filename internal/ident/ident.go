// Package ident normalizes identity values used to address array elements
// by their identity attribute (e.g. _id). Identities arrive in mixed types:
// integers from object-form path segments, digit strings from dotted paths,
// float64 from decoded JSON backends. Comparison is coercive by design, but
// through one explicit rule: everything integer-like collapses to int64,
// everything else to its string form.
package ident

import (
	"fmt"
	"math"
	"strconv"
)

// Normalize maps an identity value onto its canonical form: int64 for
// integer kinds, fraction-free floats and digit-only strings; the original
// string otherwise. Values of other types are stringified.
func Normalize(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case int:
		return int64(t)
	case int8:
		return int64(t)
	case int16:
		return int64(t)
	case int32:
		return int64(t)
	case int64:
		return t
	case uint:
		return int64(t)
	case uint8:
		return int64(t)
	case uint16:
		return int64(t)
	case uint32:
		return int64(t)
	case uint64:
		if t <= math.MaxInt64 {
			return int64(t)
		}
		return strconv.FormatUint(t, 10)
	case float32:
		return normFloat(float64(t))
	case float64:
		return normFloat(t)
	case string:
		if isDigits(t) {
			if n, err := strconv.ParseInt(t, 10, 64); err == nil {
				return n
			}
		}
		return t
	default:
		return fmt.Sprint(t)
	}
}

// Equal reports whether two identity values match under Normalize.
// nil matches only nil.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return Normalize(a) == Normalize(b)
}

func normFloat(f float64) any {
	if f == math.Trunc(f) && f >= math.MinInt64 && f <= math.MaxInt64 {
		return int64(f)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
