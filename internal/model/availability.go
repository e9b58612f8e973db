package model

import (
	"bytes"
	"fmt"
)

// Availability is a tri-state reachability flag. The zero value is unknown,
// which is distinct from unavailable and serialized as JSON null.
type Availability int8

const (
	AvailabilityUnknown Availability = iota
	Available
	Unavailable
)

// AvailabilityOf converts an optional bool.
func AvailabilityOf(b *bool) Availability {
	switch {
	case b == nil:
		return AvailabilityUnknown
	case *b:
		return Available
	default:
		return Unavailable
	}
}

// Known reports whether a check produced a definite answer.
func (a Availability) Known() bool {
	return a != AvailabilityUnknown
}

func (a Availability) String() string {
	switch a {
	case Available:
		return "available"
	case Unavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

func (a Availability) MarshalJSON() ([]byte, error) {
	switch a {
	case Available:
		return []byte("true"), nil
	case Unavailable:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

func (a *Availability) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true":
		*a = Available
	case "false":
		*a = Unavailable
	case "null":
		*a = AvailabilityUnknown
	default:
		return fmt.Errorf("availability: expected true, false or null, got %s", data)
	}
	return nil
}
