package edifact

import (
	"errors"
	"unicode/utf8"
)

// Service segment identifiers.
const (
	SegUNA = "UNA"
	SegUNB = "UNB"
	SegUNH = "UNH"
	SegUNT = "UNT"
	SegUNZ = "UNZ"
)

var (
	ErrInvalidEncoding = errors.New("segment is not valid UTF-8")
	ErrUnterminated    = errors.New("unterminated segment at end of input")
	ErrEmptySegmentID  = errors.New("segment has an empty identifier")
)

// Flow is a handler's instruction to the scanner.
type Flow int

const (
	// Continue lets the scan proceed with the next segment.
	Continue Flow = iota
	// Stop ends the scan immediately; remaining input is not tokenized.
	Stop
)

// Handler receives lifecycle and per-segment notifications from Scan.
// Segment pointers are only valid for the duration of the call.
type Handler interface {
	// OnDelimiters is called once, before any segment, with the active set.
	OnDelimiters(d Delimiters) Flow
	// OnInterchangeStart and OnInterchangeEnd fire for UNB/UNZ immediately
	// before the generic OnSegment notification for the same segment.
	OnInterchangeStart(seg *Segment) Flow
	OnInterchangeEnd(seg *Segment) Flow
	// OnMessageStart and OnMessageEnd fire for UNH/UNT, likewise before
	// OnSegment.
	OnMessageStart(seg *Segment) Flow
	OnMessageEnd(seg *Segment) Flow
	// OnSegment fires for every segment, including envelope segments.
	OnSegment(seg *Segment) Flow
	// OnError reports a malformed segment (bad encoding, missing terminator,
	// empty identifier). The scan continues unless the handler stops it.
	OnError(pos Position, err error) Flow
}

// NopHandler is a Handler that continues on every notification. Embed it to
// implement only the notifications a handler cares about.
type NopHandler struct{}

func (NopHandler) OnDelimiters(Delimiters) Flow     { return Continue }
func (NopHandler) OnInterchangeStart(*Segment) Flow { return Continue }
func (NopHandler) OnInterchangeEnd(*Segment) Flow   { return Continue }
func (NopHandler) OnMessageStart(*Segment) Flow     { return Continue }
func (NopHandler) OnMessageEnd(*Segment) Flow       { return Continue }
func (NopHandler) OnSegment(*Segment) Flow          { return Continue }
func (NopHandler) OnError(Position, error) Flow     { return Continue }

// Scan drives a single synchronous pass over one complete interchange
// buffer. Each handler call completes before the next segment is tokenized;
// a Stop return unwinds immediately without scanning further input.
func Scan(data []byte, h Handler) {
	delims, start := DetectDelimiters(data)
	if h.OnDelimiters(delims) == Stop {
		return
	}
	text := string(data[start:])
	segNum := 0
	msgNum := 0
	inMessage := false
	for _, raw := range splitSegments(text, delims) {
		pos := Position{Offset: start + raw.offset}
		if !utf8.ValidString(raw.text) {
			if h.OnError(pos, ErrInvalidEncoding) == Stop {
				return
			}
			continue
		}
		if !raw.terminated {
			if h.OnError(pos, ErrUnterminated) == Stop {
				return
			}
			continue
		}
		seg := newSegment(raw.text, delims, pos)
		if seg == nil {
			if h.OnError(pos, ErrEmptySegmentID) == Stop {
				return
			}
			continue
		}
		segNum++
		seg.Pos.SegNum = segNum
		if seg.ID == SegUNH {
			msgNum++
			inMessage = true
		}
		if inMessage {
			seg.Pos.MsgNum = msgNum
		}
		switch seg.ID {
		case SegUNB:
			if h.OnInterchangeStart(seg) == Stop {
				return
			}
		case SegUNZ:
			if h.OnInterchangeEnd(seg) == Stop {
				return
			}
		case SegUNH:
			if h.OnMessageStart(seg) == Stop {
				return
			}
		case SegUNT:
			if h.OnMessageEnd(seg) == Stop {
				return
			}
		}
		if h.OnSegment(seg) == Stop {
			return
		}
		if seg.ID == SegUNT {
			inMessage = false
		}
	}
}
