package utilmd

import (
	"strings"

	"example.com/edigate/internal/bo4e"
	"example.com/edigate/internal/edifact"
)

// Qualifier values shared by mappers and writers.
const (
	locQualifierMalo = "Z16"
	locQualifierMelo = "Z17"

	seqQualifierBalance     = "Z01"
	seqQualifierZeitscheibe = "Z98"

	cciQualifierBilanzierung = "Z19"
)

type maloGroupState int

const (
	maloOutside maloGroupState = iota
	maloInsideBalance
)

// maloMapper accumulates Marktlokationen from LOC+Z16 segments and balance
// area attributes from the CCI detail inside the SEQ+Z01 group.
type maloMapper struct {
	version FormatVersion
	state   maloGroupState

	cur  Stammdaten[bo4e.Marktlokation]
	seen bool
	out  listBuilder[Stammdaten[bo4e.Marktlokation]]
}

func newMaloMapper(v FormatVersion) *maloMapper {
	return &maloMapper{version: v}
}

func (m *maloMapper) Version() FormatVersion { return m.version }

func (m *maloMapper) CanHandle(seg *edifact.Segment) bool {
	switch seg.ID {
	case "LOC":
		return seg.First(0) == locQualifierMalo
	case "SEQ":
		return true
	case "CCI":
		return m.state == maloInsideBalance
	}
	return false
}

func (m *maloMapper) Handle(seg *edifact.Segment, ctx *Context) error {
	switch seg.ID {
	case "LOC":
		id := seg.First(1)
		if id == "" {
			return mappingErr(seg, "market location without identifier")
		}
		m.closeCurrent()
		m.cur.Objekt.MarktlokationsID = strings.Clone(id)
		m.cur.Zeitscheibe = ctx.ZeitscheibenRef
		m.seen = true
	case "SEQ":
		if seg.First(0) == seqQualifierBalance {
			m.state = maloInsideBalance
		} else {
			m.state = maloOutside
		}
	case "CCI":
		if seg.First(0) == cciQualifierBilanzierung && m.seen {
			m.cur.Objekt.Bilanzierungsgebiet = strings.Clone(seg.First(2))
		}
	}
	return nil
}

func (m *maloMapper) closeCurrent() {
	if m.seen {
		m.out.add(m.cur)
	}
	m.cur = Stammdaten[bo4e.Marktlokation]{}
	m.seen = false
}

func (m *maloMapper) Flush(tx *Transaction) error {
	m.closeCurrent()
	if !m.out.Empty() {
		tx.Marktlokationen = append(tx.Marktlokationen, m.out.Finalize()...)
	}
	m.state = maloOutside
	return nil
}

func (m *maloMapper) Reset() {
	m.cur = Stammdaten[bo4e.Marktlokation]{}
	m.seen = false
	m.state = maloOutside
	m.out.Reset()
}

func (m *maloMapper) Write(tx *Transaction, _ *Context, w *edifact.InterchangeWriter) error {
	for _, sd := range tx.Marktlokationen {
		malo := sd.Objekt
		if malo.MarktlokationsID == "" {
			return &MissingFieldError{Entity: "Marktlokation", Field: "MarktlokationsID"}
		}
		w.Segment("LOC", func(a *edifact.SegmentAssembler) {
			a.Element(locQualifierMalo)
			a.Element(malo.MarktlokationsID)
		})
		if malo.Bilanzierungsgebiet != "" {
			w.Segment("SEQ", func(a *edifact.SegmentAssembler) {
				a.Element(seqQualifierBalance)
			})
			w.Segment("CCI", func(a *edifact.SegmentAssembler) {
				a.Element(cciQualifierBilanzierung)
				a.Element("")
				a.Element(malo.Bilanzierungsgebiet)
			})
		}
	}
	return nil
}
