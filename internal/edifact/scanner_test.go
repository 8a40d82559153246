package edifact

import (
	"errors"
	"fmt"
	"testing"
)

const sampleInterchange = "UNA:+.? '" +
	"UNB+UNOC:3+9900123000002:500+9900987000001:500+240401:1312+REF001++UTILMD'" +
	"UNH+1+UTILMD:D:11A:UN:5.2c'" +
	"BGM+E01+DOC1'" +
	"UNT+3+1'" +
	"UNH+2+UTILMD:D:11A:UN:5.2c'" +
	"BGM+E01+DOC2'" +
	"LOC+Z16+MALO001'" +
	"UNT+4+2'" +
	"UNZ+2+REF001'"

// recordingHandler captures every notification in order.
type recordingHandler struct {
	events []string
	errs   []error
	stopAt int // stop after this many OnSegment calls, 0 = never
	segs   int
}

func (h *recordingHandler) OnDelimiters(d Delimiters) Flow {
	h.events = append(h.events, "delims")
	return Continue
}

func (h *recordingHandler) OnInterchangeStart(seg *Segment) Flow {
	h.events = append(h.events, "interchange-start")
	return Continue
}

func (h *recordingHandler) OnInterchangeEnd(seg *Segment) Flow {
	h.events = append(h.events, "interchange-end")
	return Continue
}

func (h *recordingHandler) OnMessageStart(seg *Segment) Flow {
	h.events = append(h.events, "message-start")
	return Continue
}

func (h *recordingHandler) OnMessageEnd(seg *Segment) Flow {
	h.events = append(h.events, "message-end")
	return Continue
}

func (h *recordingHandler) OnSegment(seg *Segment) Flow {
	h.segs++
	h.events = append(h.events, fmt.Sprintf("seg:%s:%d", seg.ID, seg.Pos.MsgNum))
	if h.stopAt > 0 && h.segs >= h.stopAt {
		return Stop
	}
	return Continue
}

func (h *recordingHandler) OnError(pos Position, err error) Flow {
	h.errs = append(h.errs, err)
	return Continue
}

func TestScanMessageNumbering(t *testing.T) {
	h := &recordingHandler{}
	Scan([]byte(sampleInterchange), h)
	if len(h.errs) != 0 {
		t.Fatalf("unexpected errors: %v", h.errs)
	}
	want := []string{
		"delims",
		"interchange-start", "seg:UNB:0",
		"message-start", "seg:UNH:1",
		"seg:BGM:1",
		"message-end", "seg:UNT:1",
		"message-start", "seg:UNH:2",
		"seg:BGM:2",
		"seg:LOC:2",
		"message-end", "seg:UNT:2",
		"interchange-end", "seg:UNZ:0",
	}
	if len(h.events) != len(want) {
		t.Fatalf("event count = %d, want %d: %v", len(h.events), len(want), h.events)
	}
	for i, ev := range want {
		if h.events[i] != ev {
			t.Fatalf("event %d = %q, want %q", i, h.events[i], ev)
		}
	}
}

func TestScanSegmentNumbersSequential(t *testing.T) {
	var nums []int
	var offsets []int
	h := &segmentCollector{onSeg: func(seg *Segment) {
		nums = append(nums, seg.Pos.SegNum)
		offsets = append(offsets, seg.Pos.Offset)
	}}
	Scan([]byte(sampleInterchange), h)
	for i, n := range nums {
		if n != i+1 {
			t.Fatalf("segment number %d = %d, want %d", i, n, i+1)
		}
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] <= offsets[i-1] {
			t.Fatalf("offsets not increasing: %v", offsets)
		}
	}
}

type segmentCollector struct {
	NopHandler
	onSeg func(*Segment)
}

func (c *segmentCollector) OnSegment(seg *Segment) Flow {
	c.onSeg(seg)
	return Continue
}

func TestScanStopAfterThreeSegments(t *testing.T) {
	h := &recordingHandler{stopAt: 3}
	Scan([]byte(sampleInterchange), h)
	if h.segs != 3 {
		t.Fatalf("segments seen = %d, want 3", h.segs)
	}
}

func TestScanMalformedSegmentsContinue(t *testing.T) {
	input := "AAA+1'+BBB'CCC+2'DDD+3"
	h := &recordingHandler{}
	Scan([]byte(input), h)
	if h.segs != 2 {
		t.Fatalf("segments seen = %d, want 2", h.segs)
	}
	if len(h.errs) != 2 {
		t.Fatalf("errors = %v, want 2", h.errs)
	}
	if !errors.Is(h.errs[0], ErrEmptySegmentID) {
		t.Fatalf("first error = %v, want ErrEmptySegmentID", h.errs[0])
	}
	if !errors.Is(h.errs[1], ErrUnterminated) {
		t.Fatalf("second error = %v, want ErrUnterminated", h.errs[1])
	}
}

func TestScanInvalidEncoding(t *testing.T) {
	input := append([]byte("AAA+1'BBB+"), 0xFF, 0xFE)
	input = append(input, "'CCC+2'"...)
	h := &recordingHandler{}
	Scan(input, h)
	if h.segs != 2 {
		t.Fatalf("segments seen = %d, want 2", h.segs)
	}
	if len(h.errs) != 1 || !errors.Is(h.errs[0], ErrInvalidEncoding) {
		t.Fatalf("errors = %v, want one ErrInvalidEncoding", h.errs)
	}
}

func TestScanCustomTerminator(t *testing.T) {
	input := "UNA:+.?*!LOC+Z16+MALO'001!BBB+with ?! escape!"
	var segs []*Segment
	h := &segmentCollector{onSeg: func(seg *Segment) {
		copied := *seg
		segs = append(segs, &copied)
	}}
	Scan([]byte(input), h)
	if len(segs) != 2 || segs[0].ID != "LOC" || segs[1].ID != "BBB" {
		t.Fatalf("segments = %+v", segs)
	}
	// With ! as terminator the apostrophe is plain data and ?! unescapes to !.
	if got := segs[0].First(1); got != "MALO'001" {
		t.Fatalf("LOC value = %q", got)
	}
	if got := segs[1].First(0); got != "with ! escape" {
		t.Fatalf("BBB value = %q", got)
	}
}

func TestScanStopOnError(t *testing.T) {
	input := "+BAD'AAA+1'"
	stopper := &errStopper{}
	Scan([]byte(input), stopper)
	if stopper.segs != 0 {
		t.Fatalf("segments after stop = %d, want 0", stopper.segs)
	}
}

type errStopper struct {
	NopHandler
	segs int
}

func (h *errStopper) OnSegment(*Segment) Flow { h.segs++; return Continue }

func (h *errStopper) OnError(Position, error) Flow { return Stop }
