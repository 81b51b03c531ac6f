package config

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from either a duration
// string ("30s", "5m") or a number of nanoseconds.
type Duration time.Duration

// TimeDuration returns the standard time.Duration value.
func (d Duration) TimeDuration() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return errors.WithStack(err)
	}
	return d.set(v)
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var v any
	if err := value.Decode(&v); err != nil {
		return errors.WithStack(err)
	}
	return d.set(v)
}

func (d *Duration) set(v any) error {
	switch typed := v.(type) {
	case float64:
		*d = Duration(time.Duration(typed))
	case int:
		*d = Duration(time.Duration(typed))
	case int64:
		*d = Duration(time.Duration(typed))
	case string:
		parsed, err := time.ParseDuration(typed)
		if err != nil {
			return errors.WithMessagef(err, "invalid duration %q", typed)
		}
		*d = Duration(parsed)
	default:
		return errors.Newf("invalid duration value of type %T", v)
	}
	return nil
}
