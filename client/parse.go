package client

import (
	"encoding/json"
	"fmt"
	"math"
)

// zoneStatus decodes any JSON value and keeps its truthiness.
// false, 0, "" and null are falsy, everything else is truthy.
type zoneStatus bool

func (z *zoneStatus) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*z = zoneStatus(truthy(v))
	return nil
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	case string:
		return t != ""
	default:
		return true
	}
}

// ParseStatus parses an inbound frame. All of state, entry and zones must
// be present, otherwise the error wraps ErrMalformedMessage.
func ParseStatus(data []byte) (StatusMessage, error) {
	var frame statusFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return StatusMessage{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	switch {
	case frame.State == nil:
		return StatusMessage{}, fmt.Errorf("%w: missing state", ErrMalformedMessage)
	case frame.Entry == nil:
		return StatusMessage{}, fmt.Errorf("%w: missing entry", ErrMalformedMessage)
	case frame.Zones == nil:
		return StatusMessage{}, fmt.Errorf("%w: missing zones", ErrMalformedMessage)
	}

	zones := make([]bool, len(*frame.Zones))
	for i, z := range *frame.Zones {
		zones[i] = bool(z)
	}

	return StatusMessage{
		State: *frame.State,
		Entry: *frame.Entry,
		Zones: zones,
	}, nil
}
