package utilmd

import (
	"strings"

	"example.com/edigate/internal/bo4e"
	"example.com/edigate/internal/edifact"
)

const (
	dtmQualifierSliceStart = "Z21"
	dtmQualifierSliceEnd   = "Z22"
	dtmFormatTimestamp     = "303"
)

// zeitscheibeMapper accumulates time slices from SEQ+Z98 groups (2310 rule
// set and later). Opening a slice publishes its reference into the shared
// context so that entities accumulated afterwards carry it as a
// back-reference; the reference stays in effect until the next slice marker
// or the transaction boundary.
type zeitscheibeMapper struct {
	version FormatVersion
	inside  bool

	cur  bo4e.Zeitscheibe
	seen bool
	out  listBuilder[bo4e.Zeitscheibe]
}

func newZeitscheibeMapper(v FormatVersion) *zeitscheibeMapper {
	return &zeitscheibeMapper{version: v}
}

func (m *zeitscheibeMapper) Version() FormatVersion { return m.version }

func (m *zeitscheibeMapper) CanHandle(seg *edifact.Segment) bool {
	switch seg.ID {
	case "SEQ":
		return true
	case "DTM":
		if !m.inside {
			return false
		}
		q := seg.Component(0, 0)
		return q == dtmQualifierSliceStart || q == dtmQualifierSliceEnd
	}
	return false
}

func (m *zeitscheibeMapper) Handle(seg *edifact.Segment, ctx *Context) error {
	switch seg.ID {
	case "SEQ":
		if seg.First(0) != seqQualifierZeitscheibe {
			m.closeCurrent()
			m.inside = false
			return nil
		}
		ref := seg.First(1)
		if ref == "" {
			return mappingErr(seg, "time slice without reference")
		}
		m.closeCurrent()
		m.cur = bo4e.Zeitscheibe{Referenz: strings.Clone(ref)}
		m.seen = true
		m.inside = true
		ctx.ZeitscheibenRef = m.cur.Referenz
	case "DTM":
		value := strings.Clone(seg.Component(0, 1))
		switch seg.Component(0, 0) {
		case dtmQualifierSliceStart:
			m.cur.Beginn = value
		case dtmQualifierSliceEnd:
			m.cur.Ende = value
		}
	}
	return nil
}

func (m *zeitscheibeMapper) closeCurrent() {
	if m.seen {
		m.out.add(m.cur)
	}
	m.cur = bo4e.Zeitscheibe{}
	m.seen = false
}

func (m *zeitscheibeMapper) Flush(tx *Transaction) error {
	m.closeCurrent()
	if !m.out.Empty() {
		tx.Zeitscheiben = append(tx.Zeitscheiben, m.out.Finalize()...)
	}
	m.inside = false
	return nil
}

func (m *zeitscheibeMapper) Reset() {
	m.cur = bo4e.Zeitscheibe{}
	m.seen = false
	m.inside = false
	m.out.Reset()
}

func (m *zeitscheibeMapper) Write(tx *Transaction, _ *Context, w *edifact.InterchangeWriter) error {
	for _, slice := range tx.Zeitscheiben {
		if slice.Referenz == "" {
			return &MissingFieldError{Entity: "Zeitscheibe", Field: "Referenz"}
		}
		s := slice
		w.Segment("SEQ", func(a *edifact.SegmentAssembler) {
			a.Element(seqQualifierZeitscheibe)
			a.Element(s.Referenz)
		})
		if s.Beginn != "" {
			w.Segment("DTM", func(a *edifact.SegmentAssembler) {
				a.Composite(dtmQualifierSliceStart, s.Beginn, dtmFormatTimestamp)
			})
		}
		if s.Ende != "" {
			w.Segment("DTM", func(a *edifact.SegmentAssembler) {
				a.Composite(dtmQualifierSliceEnd, s.Ende, dtmFormatTimestamp)
			})
		}
	}
	return nil
}
