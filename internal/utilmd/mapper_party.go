package utilmd

import (
	"strings"

	"example.com/edigate/internal/bo4e"
	"example.com/edigate/internal/edifact"
)

// NAD qualifiers claimed by the coordinator itself rather than the party
// mapper.
const (
	nadQualifierSender    = "MS"
	nadQualifierRecipient = "MR"
)

// partyMapper accumulates the remaining NAD parties (delivery address, end
// customer and similar roles) as Geschaeftspartner objects. Name and address
// components are copied into owned strings at accumulation time.
type partyMapper struct {
	version FormatVersion
	out     listBuilder[bo4e.Geschaeftspartner]
}

func newPartyMapper(v FormatVersion) *partyMapper {
	return &partyMapper{version: v}
}

func (m *partyMapper) Version() FormatVersion { return m.version }

func (m *partyMapper) CanHandle(seg *edifact.Segment) bool {
	if seg.ID != "NAD" {
		return false
	}
	q := seg.First(0)
	return q != "" && q != nadQualifierSender && q != nadQualifierRecipient
}

func (m *partyMapper) Handle(seg *edifact.Segment, _ *Context) error {
	party := bo4e.Geschaeftspartner{
		Rolle: strings.Clone(seg.First(0)),
		Name1: strings.Clone(seg.Component(3, 0)),
		Name2: strings.Clone(seg.Component(3, 1)),
		Name3: strings.Clone(seg.Component(3, 2)),
	}
	addr := bo4e.Adresse{
		Strasse:      strings.Clone(seg.Component(4, 0)),
		Hausnummer:   strings.Clone(seg.Component(4, 1)),
		Ort:          strings.Clone(seg.First(5)),
		Postleitzahl: strings.Clone(seg.First(7)),
		Land:         strings.Clone(seg.First(8)),
	}
	if addr != (bo4e.Adresse{}) {
		party.Adresse = &addr
	}
	m.out.add(party)
	return nil
}

func (m *partyMapper) Flush(tx *Transaction) error {
	if !m.out.Empty() {
		tx.Parteien = append(tx.Parteien, m.out.Finalize()...)
	}
	return nil
}

func (m *partyMapper) Reset() {
	m.out.Reset()
}

func (m *partyMapper) Write(tx *Transaction, _ *Context, w *edifact.InterchangeWriter) error {
	for _, party := range tx.Parteien {
		if party.Rolle == "" {
			return &MissingFieldError{Entity: "Geschaeftspartner", Field: "Rolle"}
		}
		p := party
		w.Segment("NAD", func(a *edifact.SegmentAssembler) {
			a.Element(p.Rolle)
			a.Element("")
			a.Element("")
			a.Composite(p.Name1, p.Name2, p.Name3)
			if p.Adresse != nil {
				a.Composite(p.Adresse.Strasse, p.Adresse.Hausnummer)
				a.Element(p.Adresse.Ort)
				a.Element("")
				a.Element(p.Adresse.Postleitzahl)
				a.Element(p.Adresse.Land)
			}
		})
	}
	return nil
}
