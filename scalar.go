package hashbin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	hasherrors "github.com/tamirms/hashbin/errors"
)

// ScalarKind identifies which variant a Scalar holds.
type ScalarKind uint8

const (
	// KindString is a UTF-8 text value. It is the zero kind, so the zero
	// Scalar is the empty string.
	KindString ScalarKind = 0

	// KindInt is a signed 64-bit integer value.
	KindInt ScalarKind = 1
)

// String returns the kind name.
func (k ScalarKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	default:
		return "unknown"
	}
}

// Scalar is a single categorical value: either a string or an integer.
//
// Both kinds hash through their canonical text form. Integers are rendered
// in base 10 with a leading '-' for negatives and no leading zeros, so
// Int(42) and String("42") always land in the same bucket.
type Scalar struct {
	kind ScalarKind
	s    string
	i    int64
}

// String returns a string Scalar.
func String(s string) Scalar {
	return Scalar{kind: KindString, s: s}
}

// Int returns an integer Scalar.
func Int(i int64) Scalar {
	return Scalar{kind: KindInt, i: i}
}

// Strings wraps each string as a Scalar.
func Strings(vals ...string) []Scalar {
	out := make([]Scalar, len(vals))
	for i, v := range vals {
		out[i] = String(v)
	}
	return out
}

// Ints wraps each integer as a Scalar.
func Ints(vals ...int64) []Scalar {
	out := make([]Scalar, len(vals))
	for i, v := range vals {
		out[i] = Int(v)
	}
	return out
}

// Kind returns the variant held by v.
func (v Scalar) Kind() ScalarKind { return v.kind }

// IsString reports whether v holds a string.
func (v Scalar) IsString() bool { return v.kind == KindString }

// IsInt reports whether v holds an integer.
func (v Scalar) IsInt() bool { return v.kind == KindInt }

// Int64 returns the integer value. It is 0 for string Scalars.
func (v Scalar) Int64() int64 { return v.i }

// AppendBytes appends the canonical byte encoding of v to dst.
func (v Scalar) AppendBytes(dst []byte) []byte {
	if v.kind == KindInt {
		return strconv.AppendInt(dst, v.i, 10)
	}
	return append(dst, v.s...)
}

// Bytes returns the canonical byte encoding of v.
func (v Scalar) Bytes() []byte {
	return v.AppendBytes(nil)
}

// String returns the canonical text of v.
func (v Scalar) String() string {
	if v.kind == KindInt {
		return strconv.FormatInt(v.i, 10)
	}
	return v.s
}

// Equal reports whether v and o hold the same kind and value.
// Int(5) and String("5") are not equal even though they hash identically.
func (v Scalar) Equal(o Scalar) bool {
	if v.kind != o.kind {
		return false
	}
	if v.kind == KindInt {
		return v.i == o.i
	}
	return v.s == o.s
}

// MarshalJSON encodes strings as JSON strings and integers as JSON numbers.
func (v Scalar) MarshalJSON() ([]byte, error) {
	if v.kind == KindInt {
		return strconv.AppendInt(nil, v.i, 10), nil
	}
	return json.Marshal(v.s)
}

// UnmarshalJSON accepts a JSON string or a JSON integer.
func (v *Scalar) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("%w: %v", hasherrors.ErrInvalidMask, err)
	}
	switch x := raw.(type) {
	case string:
		*v = String(x)
	case json.Number:
		i, err := strconv.ParseInt(x.String(), 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %q is not a 64-bit integer", hasherrors.ErrInvalidMask, x.String())
		}
		*v = Int(i)
	default:
		return fmt.Errorf("%w: got %s", hasherrors.ErrInvalidMask, data)
	}
	return nil
}
