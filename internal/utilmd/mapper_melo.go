package utilmd

import (
	"strings"

	"example.com/edigate/internal/bo4e"
	"example.com/edigate/internal/edifact"
)

// meloMapper accumulates Messlokationen from LOC+Z17 segments.
type meloMapper struct {
	version FormatVersion
	out     listBuilder[Stammdaten[bo4e.Messlokation]]
}

func newMeloMapper(v FormatVersion) *meloMapper {
	return &meloMapper{version: v}
}

func (m *meloMapper) Version() FormatVersion { return m.version }

func (m *meloMapper) CanHandle(seg *edifact.Segment) bool {
	return seg.ID == "LOC" && seg.First(0) == locQualifierMelo
}

func (m *meloMapper) Handle(seg *edifact.Segment, ctx *Context) error {
	id := seg.First(1)
	if id == "" {
		return mappingErr(seg, "metering location without identifier")
	}
	m.out.add(Stammdaten[bo4e.Messlokation]{
		Objekt:      bo4e.Messlokation{MesslokationsID: strings.Clone(id)},
		Zeitscheibe: ctx.ZeitscheibenRef,
	})
	return nil
}

func (m *meloMapper) Flush(tx *Transaction) error {
	if !m.out.Empty() {
		tx.Messlokationen = append(tx.Messlokationen, m.out.Finalize()...)
	}
	return nil
}

func (m *meloMapper) Reset() {
	m.out.Reset()
}

func (m *meloMapper) Write(tx *Transaction, _ *Context, w *edifact.InterchangeWriter) error {
	for _, sd := range tx.Messlokationen {
		if sd.Objekt.MesslokationsID == "" {
			return &MissingFieldError{Entity: "Messlokation", Field: "MesslokationsID"}
		}
		id := sd.Objekt.MesslokationsID
		w.Segment("LOC", func(a *edifact.SegmentAssembler) {
			a.Element(locQualifierMelo)
			a.Element(id)
		})
	}
	return nil
}
