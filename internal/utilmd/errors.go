package utilmd

import (
	"errors"
	"fmt"

	"example.com/edigate/internal/edifact"
)

var ErrUnknownVersion = errors.New("unknown format version")

// MappingError ties a mapping failure to the segment and byte position that
// caused it.
type MappingError struct {
	SegmentID string
	Pos       edifact.Position
	Msg       string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("mapping %s at %s: %s", e.SegmentID, e.Pos, e.Msg)
}

func mappingErr(seg *edifact.Segment, format string, args ...any) error {
	return &MappingError{
		SegmentID: seg.ID,
		Pos:       seg.Pos,
		Msg:       fmt.Sprintf(format, args...),
	}
}

// MissingFieldError names an entity field that generation requires.
type MissingFieldError struct {
	Entity string
	Field  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: required field %s is empty", e.Entity, e.Field)
}
