package edifact

import (
	"bytes"
	"strings"
	"testing"
)

func assembleOne(t *testing.T, build func(a *SegmentAssembler)) string {
	t.Helper()
	a := NewSegmentAssembler(DefaultDelimiters())
	var buf bytes.Buffer
	build(a)
	a.End(&buf)
	return buf.String()
}

func TestAssemblerTrailingEmptySuppression(t *testing.T) {
	got := assembleOne(t, func(a *SegmentAssembler) {
		a.Begin("NAD")
		a.Element("MS")
		a.Composite("9900123000002", "", "293")
		a.Element("")
		a.Element("")
	})
	if got != "NAD+MS+9900123000002::293'" {
		t.Fatalf("segment = %q", got)
	}
}

func TestAssemblerInteriorEmptyPreserved(t *testing.T) {
	got := assembleOne(t, func(a *SegmentAssembler) {
		a.Begin("ABC")
		a.Element("1")
		a.Element("")
		a.Element("2")
	})
	if got != "ABC+1++2'" {
		t.Fatalf("segment = %q", got)
	}
}

func TestAssemblerEscapesServiceCharacters(t *testing.T) {
	value := "a+b:c?d'e"
	got := assembleOne(t, func(a *SegmentAssembler) {
		a.Begin("FTX")
		a.Element(value)
	})
	if got != "FTX+a?+b?:c??d?'e'" {
		t.Fatalf("segment = %q", got)
	}

	// The tokenizer must recover the original value.
	d := DefaultDelimiters()
	raws := splitSegments(got, d)
	if len(raws) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(raws))
	}
	seg := newSegment(raws[0].text, d, Position{})
	if seg == nil {
		t.Fatal("segment is nil")
	}
	if got := seg.First(0); got != value {
		t.Fatalf("roundtrip value = %q, want %q", got, value)
	}
}

func TestAssemblerCompositeByParts(t *testing.T) {
	got := assembleOne(t, func(a *SegmentAssembler) {
		a.Begin("DTM")
		a.BeginComposite()
		a.Component("137")
		a.Component("202604012215")
		a.Component("303")
		a.EndComposite()
	})
	if got != "DTM+137:202604012215:303'" {
		t.Fatalf("segment = %q", got)
	}
}

func TestInterchangeWriterFraming(t *testing.T) {
	w := NewInterchangeWriter(DefaultDelimiters())
	w.WriteUNA()
	w.BeginInterchange(InterchangeHeader{
		Sender:             "SENDER",
		SenderQualifier:    "500",
		Recipient:          "RECIPIENT",
		RecipientQualifier: "500",
		Date:               "240401",
		Time:               "1312",
		Reference:          "REF001",
		ApplicationRef:     "UTILMD",
	})
	w.BeginMessage("1", MessageType{Type: "UTILMD", Version: "D", Release: "11A", Agency: "UN", Association: "5.2c"})
	w.Segment("BGM", func(a *SegmentAssembler) {
		a.Element("E01")
		a.Element("DOC1")
	})
	w.Segment("LOC", func(a *SegmentAssembler) {
		a.Element("Z16")
		a.Element("MALO001")
	})
	w.EndMessage()
	w.EndInterchange()

	out, err := w.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	text := string(out)
	if !strings.HasPrefix(text, "UNA:+.? 'UNB+UNOC:3+SENDER:500+RECIPIENT:500+240401:1312+REF001++UTILMD'") {
		t.Fatalf("envelope = %q", text)
	}
	// UNH + BGM + LOC + UNT = 4 segments in the message.
	if !strings.Contains(text, "UNT+4+1'") {
		t.Fatalf("missing UNT trailer: %q", text)
	}
	if !strings.HasSuffix(text, "UNZ+1+REF001'") {
		t.Fatalf("missing UNZ trailer: %q", text)
	}
}

func TestInterchangeWriterStickyErrors(t *testing.T) {
	w := NewInterchangeWriter(DefaultDelimiters())
	w.Segment("BGM", nil)
	if w.Err() == nil {
		t.Fatal("content segment outside message should fail")
	}
	if _, err := w.Bytes(); err == nil {
		t.Fatal("Bytes should report sticky error")
	}

	w = NewInterchangeWriter(DefaultDelimiters())
	w.BeginInterchange(InterchangeHeader{Reference: "R"})
	w.BeginMessage("1", MessageType{Type: "UTILMD"})
	if _, err := w.Bytes(); err == nil {
		t.Fatal("unfinished interchange should fail")
	}
}

func TestInterchangeWriterMultipleMessages(t *testing.T) {
	w := NewInterchangeWriter(DefaultDelimiters())
	w.BeginInterchange(InterchangeHeader{Reference: "REF9"})
	for i := 0; i < 2; i++ {
		w.BeginMessage("1", MessageType{Type: "UTILMD", Version: "D", Release: "11A", Agency: "UN", Association: "S1.1"})
		w.Segment("BGM", func(a *SegmentAssembler) { a.Element("E01") })
		w.EndMessage()
	}
	w.EndInterchange()
	out, err := w.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if !strings.HasSuffix(string(out), "UNZ+2+REF9'") {
		t.Fatalf("UNZ trailer = %q", out)
	}
}

func TestWriterOutputRescans(t *testing.T) {
	w := NewInterchangeWriter(DefaultDelimiters())
	w.WriteUNA()
	w.BeginInterchange(InterchangeHeader{Reference: "REF001"})
	w.BeginMessage("1", MessageType{Type: "UTILMD", Version: "D", Release: "11A", Agency: "UN", Association: "5.2c"})
	w.Segment("FTX", func(a *SegmentAssembler) {
		a.Element("ACB")
		a.Element("")
		a.Element("")
		a.Element("text with 'quotes'")
	})
	w.EndMessage()
	w.EndInterchange()
	out, err := w.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}

	var ftx string
	h := &segmentCollector{onSeg: func(seg *Segment) {
		if seg.ID == "FTX" {
			ftx = seg.First(3)
		}
	}}
	Scan(out, h)
	if ftx != "text with 'quotes'" {
		t.Fatalf("rescanned free text = %q", ftx)
	}
}
