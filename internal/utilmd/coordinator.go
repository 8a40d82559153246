package utilmd

import (
	"errors"
	"strings"

	"example.com/edigate/internal/bo4e"
	"example.com/edigate/internal/edifact"
)

// Document-level qualifiers handled by the coordinator itself.
const (
	ideQualifierTransaction = "24"
	rffQualifierPruefid     = "Z13"
	dtmQualifierMessageDate = "137"
)

// Coordinator implements the parse engine's handler protocol for one format
// version. It records envelope identity, detects transaction boundaries,
// routes every other segment to the registered entity mappers and assembles
// one Transaction aggregate per IDE+24 occurrence. A coordinator is not
// safe for concurrent use; batch processing hands each input its own.
type Coordinator struct {
	version FormatVersion
	ctx     Context
	mappers []Mapper

	// Envelope-local state, reset per message.
	kategorie        string
	dokumentNummer   string
	nachrichtendatum string
	txID             string
	txOpen           bool

	out       []Transaction
	errs      []error
	malformed int
}

func newCoordinator(v FormatVersion, mappers []Mapper) *Coordinator {
	return &Coordinator{
		version: v,
		ctx:     Context{Version: v},
		mappers: mappers,
	}
}

// Transactions returns the aggregates assembled so far, in input order.
func (c *Coordinator) Transactions() []Transaction {
	return c.out
}

// Err returns all mapping failures joined, or nil.
func (c *Coordinator) Err() error {
	return errors.Join(c.errs...)
}

// MalformedSegments reports how many malformed segments the scanner
// surfaced and the coordinator skipped.
func (c *Coordinator) MalformedSegments() int {
	return c.malformed
}

func (c *Coordinator) OnDelimiters(edifact.Delimiters) edifact.Flow {
	return edifact.Continue
}

func (c *Coordinator) OnInterchangeStart(seg *edifact.Segment) edifact.Flow {
	c.ctx.Absender = bo4e.Marktteilnehmer{
		Codenummer:               strings.Clone(seg.Component(1, 0)),
		Identifikationsqualifier: strings.Clone(seg.Component(1, 1)),
	}
	c.ctx.Empfaenger = bo4e.Marktteilnehmer{
		Codenummer:               strings.Clone(seg.Component(2, 0)),
		Identifikationsqualifier: strings.Clone(seg.Component(2, 1)),
	}
	c.ctx.InterchangeRef = strings.Clone(seg.First(4))
	return edifact.Continue
}

func (c *Coordinator) OnInterchangeEnd(*edifact.Segment) edifact.Flow {
	return edifact.Continue
}

func (c *Coordinator) OnMessageStart(seg *edifact.Segment) edifact.Flow {
	c.ctx.MessageRef = strings.Clone(seg.First(0))
	if seg.Component(1, 0) == messageTypeUTILMD {
		if got := versionFromAssociation(seg.Component(1, 4)); got != c.version {
			c.errs = append(c.errs, mappingErr(seg,
				"message uses rule set %s, coordinator is bound to %s", got, c.version))
			return edifact.Stop
		}
	}
	return edifact.Continue
}

func (c *Coordinator) OnMessageEnd(*edifact.Segment) edifact.Flow {
	if c.txOpen {
		c.finalizeTransaction()
	} else {
		// Entities accumulated in a message that never opened a
		// transaction are discarded; they must not surface in the next
		// message's first transaction.
		for _, m := range c.mappers {
			m.Reset()
		}
		c.ctx.Reset()
	}
	c.kategorie = ""
	c.dokumentNummer = ""
	c.nachrichtendatum = ""
	return edifact.Continue
}

func (c *Coordinator) OnSegment(seg *edifact.Segment) edifact.Flow {
	switch seg.ID {
	case edifact.SegUNB, edifact.SegUNH, edifact.SegUNT, edifact.SegUNZ:
		return edifact.Continue
	case "BGM":
		c.kategorie = strings.Clone(seg.First(0))
		c.dokumentNummer = strings.Clone(seg.First(1))
		return edifact.Continue
	case "DTM":
		if seg.Component(0, 0) == dtmQualifierMessageDate {
			c.nachrichtendatum = strings.Clone(seg.Component(0, 1))
			return edifact.Continue
		}
	case "NAD":
		switch seg.First(0) {
		case nadQualifierSender:
			c.ctx.Absender.Codenummer = strings.Clone(seg.Component(1, 0))
			c.ctx.Absender.Codeliste = strings.Clone(seg.Component(1, 2))
			c.ctx.Absender.Rolle = nadQualifierSender
			return edifact.Continue
		case nadQualifierRecipient:
			c.ctx.Empfaenger.Codenummer = strings.Clone(seg.Component(1, 0))
			c.ctx.Empfaenger.Codeliste = strings.Clone(seg.Component(1, 2))
			c.ctx.Empfaenger.Rolle = nadQualifierRecipient
			return edifact.Continue
		}
	case "IDE":
		if seg.First(0) == ideQualifierTransaction {
			if c.txOpen {
				c.finalizeTransaction()
			}
			c.txID = strings.Clone(seg.First(1))
			c.txOpen = true
			return edifact.Continue
		}
	case "RFF":
		if seg.Component(0, 0) == rffQualifierPruefid {
			c.ctx.Pruefidentifikator = strings.Clone(seg.Component(0, 1))
			return edifact.Continue
		}
	}
	for _, m := range c.mappers {
		if !m.CanHandle(seg) {
			continue
		}
		if err := m.Handle(seg, &c.ctx); err != nil {
			c.errs = append(c.errs, err)
		}
	}
	return edifact.Continue
}

func (c *Coordinator) OnError(pos edifact.Position, err error) edifact.Flow {
	c.malformed++
	return edifact.Continue
}

// finalizeTransaction assembles the aggregate for the open transaction,
// flushes every entity builder into it and resets the transaction-scoped
// state for the next one.
func (c *Coordinator) finalizeTransaction() {
	tx := Transaction{
		TransaktionsID:     c.txID,
		Kategorie:          c.kategorie,
		DokumentNummer:     c.dokumentNummer,
		Nachrichtendatum:   c.nachrichtendatum,
		Pruefidentifikator: c.ctx.Pruefidentifikator,
		Absender:           c.ctx.Absender,
		Empfaenger:         c.ctx.Empfaenger,
	}
	for _, m := range c.mappers {
		if err := m.Flush(&tx); err != nil {
			c.errs = append(c.errs, err)
		}
	}
	c.out = append(c.out, tx)
	for _, m := range c.mappers {
		m.Reset()
	}
	c.ctx.Reset()
	c.txID = ""
	c.txOpen = false
}
