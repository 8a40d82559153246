package utilmd

import (
	"strings"

	"example.com/edigate/internal/bo4e"
	"example.com/edigate/internal/edifact"
)

const piaQualifierProduct = "5"

type meterGroupState int

const (
	meterOutside meterGroupState = iota
	meterInsideGroup
)

// meterMapper accumulates Zaehler objects from the meter detail group. The
// group is opened by its SEQ marker (Z02 in the 2204 rule set, Z03 from
// 2310 on) and closed by any differing SEQ marker; PIA and CAV segments
// inside the group fill the current meter.
type meterMapper struct {
	version   FormatVersion
	qualifier string
	state     meterGroupState

	cur  Stammdaten[bo4e.Zaehler]
	seen bool
	out  listBuilder[Stammdaten[bo4e.Zaehler]]
}

func newMeterMapper(v FormatVersion) *meterMapper {
	return &meterMapper{version: v, qualifier: v.meterGroupQualifier()}
}

func (m *meterMapper) Version() FormatVersion { return m.version }

func (m *meterMapper) CanHandle(seg *edifact.Segment) bool {
	switch seg.ID {
	case "SEQ":
		return true
	case "PIA", "CAV":
		return m.state == meterInsideGroup
	}
	return false
}

func (m *meterMapper) Handle(seg *edifact.Segment, ctx *Context) error {
	switch seg.ID {
	case "SEQ":
		m.closeCurrent()
		if seg.First(0) == m.qualifier {
			m.state = meterInsideGroup
			m.cur.Zeitscheibe = ctx.ZeitscheibenRef
		} else {
			m.state = meterOutside
		}
	case "PIA":
		if seg.First(0) != piaQualifierProduct {
			return nil
		}
		number := seg.Component(1, 0)
		if number == "" {
			return mappingErr(seg, "meter without device number")
		}
		m.cur.Objekt.Zaehlernummer = strings.Clone(number)
		m.cur.Objekt.Zaehlertyp = strings.Clone(seg.Component(1, 1))
		m.seen = true
	case "CAV":
		if m.seen {
			m.cur.Objekt.Merkmale = append(m.cur.Objekt.Merkmale, strings.Clone(seg.First(0)))
		}
	}
	return nil
}

func (m *meterMapper) closeCurrent() {
	if m.seen {
		m.out.add(m.cur)
	}
	m.cur = Stammdaten[bo4e.Zaehler]{}
	m.seen = false
}

func (m *meterMapper) Flush(tx *Transaction) error {
	m.closeCurrent()
	if !m.out.Empty() {
		tx.Zaehler = append(tx.Zaehler, m.out.Finalize()...)
	}
	m.state = meterOutside
	return nil
}

func (m *meterMapper) Reset() {
	m.cur = Stammdaten[bo4e.Zaehler]{}
	m.seen = false
	m.state = meterOutside
	m.out.Reset()
}

func (m *meterMapper) Write(tx *Transaction, _ *Context, w *edifact.InterchangeWriter) error {
	for _, sd := range tx.Zaehler {
		meter := sd.Objekt
		if meter.Zaehlernummer == "" {
			return &MissingFieldError{Entity: "Zaehler", Field: "Zaehlernummer"}
		}
		w.Segment("SEQ", func(a *edifact.SegmentAssembler) {
			a.Element(m.qualifier)
		})
		w.Segment("PIA", func(a *edifact.SegmentAssembler) {
			a.Element(piaQualifierProduct)
			a.Composite(meter.Zaehlernummer, meter.Zaehlertyp)
		})
		for _, merkmal := range meter.Merkmale {
			value := merkmal
			w.Segment("CAV", func(a *edifact.SegmentAssembler) {
				a.Element(value)
			})
		}
	}
	return nil
}
