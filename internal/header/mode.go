package header

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Mode is the validated form of a caller's header option.
type Mode int

const (
	// ModeUnspecified means the caller did not set the option. It resolves
	// like ModeAutoDetect.
	ModeUnspecified Mode = iota
	// ModeForceHeader treats row 0 as a header (raw value 1).
	ModeForceHeader
	// ModeAutoDetect infers the header from the sample (raw value 0).
	ModeAutoDetect
	// ModeForceNoHeader treats row 0 as data (raw value -1).
	ModeForceNoHeader
)

// ModeFromInt maps the conventional integers to a Mode.
func ModeFromInt(v int) (Mode, error) {
	switch v {
	case 1:
		return ModeForceHeader, nil
	case 0:
		return ModeAutoDetect, nil
	case -1:
		return ModeForceNoHeader, nil
	default:
		return ModeUnspecified, fmt.Errorf("%w: %d (want 1, 0 or -1)", ErrInvalidArgument, v)
	}
}

// Validate normalizes a raw header option into a Mode.
//
// Accepted inputs are the integers 1, 0 and -1 in any Go integer kind, an
// integral float64 (as decoded from JSON), a json.Number, the same values
// written as decimal strings, or one of the symbolic names "header",
// "force_header", "auto", "guess", "data" and "no_header". A nil value, a nil
// pointer or a blank string means unset and yields ModeUnspecified. Every
// other value fails with an error wrapping ErrInvalidArgument.
func Validate(raw any) (Mode, error) {
	switch v := raw.(type) {
	case nil:
		return ModeUnspecified, nil
	case Mode:
		if !v.valid() {
			return ModeUnspecified, fmt.Errorf("%w: mode %d", ErrInvalidArgument, int(v))
		}
		return v, nil
	case int:
		return ModeFromInt(v)
	case int8, int16, int32, int64:
		n := reflect.ValueOf(v).Int()
		if n < -1 || n > 1 {
			return ModeUnspecified, fmt.Errorf("%w: %d (want 1, 0 or -1)", ErrInvalidArgument, n)
		}
		return ModeFromInt(int(n))
	case uint, uint8, uint16, uint32, uint64:
		n := reflect.ValueOf(v).Uint()
		if n > 1 {
			return ModeUnspecified, fmt.Errorf("%w: %d (want 1, 0 or -1)", ErrInvalidArgument, n)
		}
		return ModeFromInt(int(n))
	case float32:
		return fromFloat(float64(v))
	case float64:
		return fromFloat(v)
	case json.Number:
		return fromString(v.String())
	case string:
		return fromString(v)
	}

	// Pointers to any of the above; a nil pointer is "unset".
	rv := reflect.ValueOf(raw)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ModeUnspecified, nil
		}
		return Validate(rv.Elem().Interface())
	}

	return ModeUnspecified, fmt.Errorf("%w: unsupported value %v of type %T", ErrInvalidArgument, raw, raw)
}

func fromFloat(f float64) (Mode, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f < -1 || f > 1 {
		return ModeUnspecified, fmt.Errorf("%w: %v (want 1, 0 or -1)", ErrInvalidArgument, f)
	}
	return ModeFromInt(int(f))
}

func fromString(s string) (Mode, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ModeUnspecified, nil
	}

	switch strings.ToLower(s) {
	case "header", "force_header":
		return ModeForceHeader, nil
	case "auto", "guess":
		return ModeAutoDetect, nil
	case "data", "no_header":
		return ModeForceNoHeader, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return ModeUnspecified, fmt.Errorf("%w: %q", ErrInvalidArgument, s)
	}
	return ModeFromInt(n)
}

func (m Mode) valid() bool {
	return m >= ModeUnspecified && m <= ModeForceNoHeader
}

// Int returns the conventional integer for m. ModeUnspecified reports 0.
func (m Mode) Int() int {
	switch m {
	case ModeForceHeader:
		return 1
	case ModeForceNoHeader:
		return -1
	default:
		return 0
	}
}

// String returns a stable name, used in logs and JSON.
func (m Mode) String() string {
	switch m {
	case ModeUnspecified:
		return "unspecified"
	case ModeForceHeader:
		return "force_header"
	case ModeAutoDetect:
		return "auto_detect"
	case ModeForceNoHeader:
		return "force_no_header"
	default:
		return "Mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// MarshalText encodes the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.valid() {
		return nil, fmt.Errorf("%w: mode %d", ErrInvalidArgument, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText accepts both the names produced by MarshalText and every
// form Validate accepts as a string.
func (m *Mode) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for _, candidate := range []Mode{ModeUnspecified, ModeForceHeader, ModeAutoDetect, ModeForceNoHeader} {
		if s == candidate.String() {
			*m = candidate
			return nil
		}
	}
	parsed, err := fromString(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
