package edifact

import "fmt"

// Position records where a segment was found within the interchange.
// MsgNum is 0 for service segments that belong to the interchange envelope
// rather than to a message.
type Position struct {
	SegNum int // 1-based sequential segment number
	Offset int // byte offset of the segment within the input buffer
	MsgNum int // 1-based message number, 0 outside any message
}

func (p Position) String() string {
	return fmt.Sprintf("segment %d (message %d) at offset %d", p.SegNum, p.MsgNum, p.Offset)
}

// Segment is one parsed EDIFACT segment. Its strings borrow from the input
// buffer wherever no escape sequence had to be resolved; they must not be
// retained past the scan that produced the segment. Callers needing
// longer-lived data copy it into owned values.
type Segment struct {
	ID       string
	Elements [][]string
	Pos      Position
}

// newSegment builds a segment record from one tokenized segment body.
// An empty identifier yields no record.
func newSegment(body string, d Delimiters, pos Position) *Segment {
	elems := splitElements(body, d)
	id := unescape(elems[0], d.Release)
	if id == "" {
		return nil
	}
	seg := &Segment{ID: id, Pos: pos}
	if len(elems) > 1 {
		seg.Elements = make([][]string, 0, len(elems)-1)
		for _, e := range elems[1:] {
			seg.Elements = append(seg.Elements, splitComponents(e, d))
		}
	}
	return seg
}

// First returns the first component of element i, or "" when the element is
// absent. This is the whole value of a non-composite element.
func (s *Segment) First(i int) string {
	return s.Component(i, 0)
}

// Component returns component j of element i, or "" when either index is out
// of range. Out-of-bounds lookups deliberately do not fail so that mapping
// code gets optional-field semantics for free.
func (s *Segment) Component(i, j int) string {
	if i < 0 || i >= len(s.Elements) {
		return ""
	}
	comps := s.Elements[i]
	if j < 0 || j >= len(comps) {
		return ""
	}
	return comps[j]
}

// Components returns all components of element i, or nil when absent.
func (s *Segment) Components(i int) []string {
	if i < 0 || i >= len(s.Elements) {
		return nil
	}
	return s.Elements[i]
}
