package model

import (
	"bytes"
	"fmt"
)

// CaptionState is the tri-state caption-availability flag. The zero value
// means the availability has never been determined; it is omitted from the
// persisted document, while the two known states round-trip as JSON booleans.
type CaptionState int

const (
	CaptionsUnknown CaptionState = iota
	CaptionsEnabled
	CaptionsDisabled
)

func (s CaptionState) Known() bool {
	return s == CaptionsEnabled || s == CaptionsDisabled
}

func (s CaptionState) String() string {
	switch s {
	case CaptionsEnabled:
		return "enabled"
	case CaptionsDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

func (s CaptionState) MarshalJSON() ([]byte, error) {
	switch s {
	case CaptionsEnabled:
		return []byte("true"), nil
	case CaptionsDisabled:
		return []byte("false"), nil
	case CaptionsUnknown:
		return []byte("null"), nil
	default:
		return nil, fmt.Errorf("invalid caption state %d", int(s))
	}
}

func (s *CaptionState) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true":
		*s = CaptionsEnabled
	case "false":
		*s = CaptionsDisabled
	case "null":
		*s = CaptionsUnknown
	default:
		return fmt.Errorf("invalid captions_available value %s (expected true, false, or null)", string(data))
	}
	return nil
}
