package edifact

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// SegmentAssembler builds one segment at a time: Begin, a sequence of plain
// elements or composite begin/component/end calls, then End. End strips
// trailing empty elements and components (interior empties are preserved as
// empty positions to keep field alignment) and appends the escaped,
// terminator-delimited segment to the output buffer.
type SegmentAssembler struct {
	delims      Delimiters
	id          string
	elements    [][]string
	composite   []string
	inComposite bool
}

// NewSegmentAssembler returns an assembler emitting the given delimiter set.
func NewSegmentAssembler(d Delimiters) *SegmentAssembler {
	return &SegmentAssembler{delims: d}
}

// Begin starts a new segment, discarding any unfinished state.
func (a *SegmentAssembler) Begin(id string) {
	a.id = id
	a.elements = a.elements[:0]
	a.composite = nil
	a.inComposite = false
}

// Element appends one non-composite element.
func (a *SegmentAssembler) Element(value string) {
	a.closeComposite()
	a.elements = append(a.elements, []string{value})
}

// BeginComposite starts a composite element; subsequent Component calls add
// to it until EndComposite or the next element boundary.
func (a *SegmentAssembler) BeginComposite() {
	a.closeComposite()
	a.inComposite = true
	a.composite = nil
}

// Component appends one component to the open composite element.
func (a *SegmentAssembler) Component(value string) {
	if !a.inComposite {
		a.BeginComposite()
	}
	a.composite = append(a.composite, value)
}

// EndComposite closes the open composite element.
func (a *SegmentAssembler) EndComposite() {
	a.closeComposite()
}

// Composite appends a complete composite element in one call.
func (a *SegmentAssembler) Composite(values ...string) {
	a.closeComposite()
	comps := make([]string, len(values))
	copy(comps, values)
	a.elements = append(a.elements, comps)
}

func (a *SegmentAssembler) closeComposite() {
	if a.inComposite {
		a.elements = append(a.elements, a.composite)
		a.composite = nil
		a.inComposite = false
	}
}

// End finalizes the segment and appends its wire form to out.
func (a *SegmentAssembler) End(out *bytes.Buffer) {
	a.closeComposite()
	elems := a.elements
	for len(elems) > 0 && elementEmpty(elems[len(elems)-1]) {
		elems = elems[:len(elems)-1]
	}
	out.WriteString(a.id)
	for _, comps := range elems {
		for len(comps) > 1 && comps[len(comps)-1] == "" {
			comps = comps[:len(comps)-1]
		}
		out.WriteByte(a.delims.Element)
		for j, c := range comps {
			if j > 0 {
				out.WriteByte(a.delims.Component)
			}
			a.writeEscaped(out, c)
		}
	}
	out.WriteByte(a.delims.Terminator)
	a.id = ""
	a.elements = a.elements[:0]
}

func elementEmpty(comps []string) bool {
	for _, c := range comps {
		if c != "" {
			return false
		}
	}
	return true
}

// writeEscaped mirrors the tokenizer: any delimiter or the release character
// occurring in data is preceded by the release character on output.
func (a *SegmentAssembler) writeEscaped(out *bytes.Buffer, value string) {
	if !strings.ContainsAny(value, string([]byte{a.delims.Component, a.delims.Element, a.delims.Release, a.delims.Terminator})) {
		out.WriteString(value)
		return
	}
	for i := 0; i < len(value); i++ {
		if a.delims.isService(value[i]) {
			out.WriteByte(a.delims.Release)
		}
		out.WriteByte(value[i])
	}
}

// InterchangeHeader carries the UNB envelope values.
type InterchangeHeader struct {
	SyntaxIdentifier   string // defaults to UNOC
	SyntaxVersion      string // defaults to 3
	Sender             string
	SenderQualifier    string
	Recipient          string
	RecipientQualifier string
	Date               string // yymmdd
	Time               string // hhmm
	Reference          string
	ApplicationRef     string
}

// MessageType carries the UNH S009 message identifier composite.
type MessageType struct {
	Type        string // e.g. UTILMD
	Version     string // e.g. D
	Release     string // e.g. 11A
	Agency      string // e.g. UN
	Association string // rule-set code, e.g. 5.2c or S1.1
}

// InterchangeWriter frames segments into messages and interchanges with
// automatic trailer bookkeeping: it counts segments written since the last
// message start for the UNT trailer and messages since the interchange start
// for the UNZ trailer, so callers only supply content segments and matching
// begin/end calls. Errors are sticky; check Err or the Bytes result.
type InterchangeWriter struct {
	buf    bytes.Buffer
	asm    *SegmentAssembler
	delims Delimiters

	interchangeRef string
	messageRef     string
	msgCount       int
	segCount       int
	inInterchange  bool
	inMessage      bool
	err            error
}

// NewInterchangeWriter returns a writer emitting the given delimiter set.
func NewInterchangeWriter(d Delimiters) *InterchangeWriter {
	return &InterchangeWriter{asm: NewSegmentAssembler(d), delims: d}
}

// WriteUNA emits the service string advice. It must come before the UNB.
func (w *InterchangeWriter) WriteUNA() {
	if w.err != nil || w.inInterchange {
		w.fail("UNA must precede the interchange header")
		return
	}
	w.buf.Write(w.delims.UNA())
}

// BeginInterchange writes the UNB segment and opens the interchange.
func (w *InterchangeWriter) BeginInterchange(h InterchangeHeader) {
	if w.err != nil {
		return
	}
	if w.inInterchange {
		w.fail("interchange already open")
		return
	}
	syntax := h.SyntaxIdentifier
	if syntax == "" {
		syntax = "UNOC"
	}
	version := h.SyntaxVersion
	if version == "" {
		version = "3"
	}
	w.asm.Begin(SegUNB)
	w.asm.Composite(syntax, version)
	w.asm.Composite(h.Sender, h.SenderQualifier)
	w.asm.Composite(h.Recipient, h.RecipientQualifier)
	w.asm.Composite(h.Date, h.Time)
	w.asm.Element(h.Reference)
	w.asm.Element("")
	w.asm.Element(h.ApplicationRef)
	w.asm.End(&w.buf)
	w.interchangeRef = h.Reference
	w.inInterchange = true
	w.msgCount = 0
}

// BeginMessage writes the UNH segment and opens a message.
func (w *InterchangeWriter) BeginMessage(ref string, mt MessageType) {
	if w.err != nil {
		return
	}
	if !w.inInterchange {
		w.fail("message outside interchange")
		return
	}
	if w.inMessage {
		w.fail("message already open")
		return
	}
	w.asm.Begin(SegUNH)
	w.asm.Element(ref)
	w.asm.Composite(mt.Type, mt.Version, mt.Release, mt.Agency, mt.Association)
	w.asm.End(&w.buf)
	w.messageRef = ref
	w.inMessage = true
	w.segCount = 1 // the UNH counts toward the UNT total
}

// Segment assembles one content segment via the supplied builder function.
func (w *InterchangeWriter) Segment(id string, build func(a *SegmentAssembler)) {
	if w.err != nil {
		return
	}
	if !w.inMessage {
		w.fail("content segment outside message")
		return
	}
	w.asm.Begin(id)
	if build != nil {
		build(w.asm)
	}
	w.asm.End(&w.buf)
	w.segCount++
}

// EndMessage writes the UNT trailer with the segment count (including the
// UNH and the UNT itself) and the message reference.
func (w *InterchangeWriter) EndMessage() {
	if w.err != nil {
		return
	}
	if !w.inMessage {
		w.fail("no message open")
		return
	}
	w.asm.Begin(SegUNT)
	w.asm.Element(strconv.Itoa(w.segCount + 1))
	w.asm.Element(w.messageRef)
	w.asm.End(&w.buf)
	w.inMessage = false
	w.msgCount++
}

// EndInterchange writes the UNZ trailer with the message count and the
// echoed interchange reference.
func (w *InterchangeWriter) EndInterchange() {
	if w.err != nil {
		return
	}
	if w.inMessage {
		w.fail("message still open")
		return
	}
	if !w.inInterchange {
		w.fail("no interchange open")
		return
	}
	w.asm.Begin(SegUNZ)
	w.asm.Element(strconv.Itoa(w.msgCount))
	w.asm.Element(w.interchangeRef)
	w.asm.End(&w.buf)
	w.inInterchange = false
}

// Err returns the first framing error, if any.
func (w *InterchangeWriter) Err() error {
	return w.err
}

// Bytes returns the accumulated wire output. It fails if framing calls were
// unbalanced or an earlier call failed.
func (w *InterchangeWriter) Bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	if w.inMessage || w.inInterchange {
		return nil, fmt.Errorf("interchange not finished")
	}
	return w.buf.Bytes(), nil
}

func (w *InterchangeWriter) fail(msg string) {
	if w.err == nil {
		w.err = fmt.Errorf("interchange writer: %s", msg)
	}
}
