package utilmd

import (
	"fmt"
	"strconv"
	"time"

	"example.com/edigate/internal/edifact"
)

// Parse converts one complete interchange buffer into its transaction
// aggregates. The buffer is only read for the duration of the call; the
// returned aggregates own all of their data.
func Parse(data []byte, v FormatVersion) ([]Transaction, error) {
	c, err := NewCoordinator(v)
	if err != nil {
		return nil, err
	}
	edifact.Scan(data, c)
	if err := c.Err(); err != nil {
		return nil, err
	}
	return c.Transactions(), nil
}

// Generate renders one transaction aggregate as a complete single-message
// interchange, including UNA advice and envelope framing.
func Generate(tx *Transaction, v FormatVersion) ([]byte, error) {
	c, err := NewCoordinator(v)
	if err != nil {
		return nil, err
	}
	return c.Generate(tx)
}

// Generate emits the wire form of one transaction aggregate using the
// coordinator's entity writers. Entities without a time-slice reference are
// written first; every declared slice follows as a SEQ+Z98 group containing
// the entities bound to it, so a reparse reconstructs the same
// back-references.
func (c *Coordinator) Generate(tx *Transaction) ([]byte, error) {
	if tx.TransaktionsID == "" {
		return nil, &MissingFieldError{Entity: "Transaction", Field: "TransaktionsID"}
	}
	now := time.Now().UTC()
	w := edifact.NewInterchangeWriter(edifact.DefaultDelimiters())
	w.WriteUNA()
	w.BeginInterchange(edifact.InterchangeHeader{
		Sender:             tx.Absender.Codenummer,
		SenderQualifier:    tx.Absender.Identifikationsqualifier,
		Recipient:          tx.Empfaenger.Codenummer,
		RecipientQualifier: tx.Empfaenger.Identifikationsqualifier,
		Date:               now.Format("060102"),
		Time:               now.Format("1504"),
		Reference:          interchangeReference(tx),
		ApplicationRef:     messageTypeUTILMD,
	})
	w.BeginMessage("1", c.version.messageType())

	kategorie := tx.Kategorie
	if kategorie == "" {
		kategorie = "E01"
	}
	w.Segment("BGM", func(a *edifact.SegmentAssembler) {
		a.Element(kategorie)
		a.Element(tx.DokumentNummer)
	})
	if tx.Nachrichtendatum != "" {
		w.Segment("DTM", func(a *edifact.SegmentAssembler) {
			a.Composite(dtmQualifierMessageDate, tx.Nachrichtendatum, dtmFormatTimestamp)
		})
	}
	if tx.Absender.Codenummer != "" {
		w.Segment("NAD", func(a *edifact.SegmentAssembler) {
			a.Element(nadQualifierSender)
			a.Composite(tx.Absender.Codenummer, "", tx.Absender.Codeliste)
		})
	}
	if tx.Empfaenger.Codenummer != "" {
		w.Segment("NAD", func(a *edifact.SegmentAssembler) {
			a.Element(nadQualifierRecipient)
			a.Composite(tx.Empfaenger.Codenummer, "", tx.Empfaenger.Codeliste)
		})
	}
	w.Segment("IDE", func(a *edifact.SegmentAssembler) {
		a.Element(ideQualifierTransaction)
		a.Element(tx.TransaktionsID)
	})
	if tx.Pruefidentifikator != "" {
		w.Segment("RFF", func(a *edifact.SegmentAssembler) {
			a.Composite(rffQualifierPruefid, tx.Pruefidentifikator)
		})
	}
	scopes, err := entityScopes(tx)
	if err != nil {
		return nil, err
	}
	for i := range scopes {
		for _, m := range c.mappers {
			if err := m.Write(&scopes[i], &c.ctx, w); err != nil {
				return nil, err
			}
		}
	}
	w.EndMessage()
	w.EndInterchange()
	out, err := w.Bytes()
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", tx.TransaktionsID, err)
	}
	return out, nil
}

// entityScopes splits the aggregate by time-slice reference. The first scope
// holds the slice-less entities and the message-level parties; every declared
// slice gets one scope with the entities carrying its reference. An entity
// referencing an undeclared slice has no marker to sit under and fails the
// generation.
func entityScopes(tx *Transaction) ([]Transaction, error) {
	refs := []string{""}
	index := map[string]int{"": 0}
	for _, s := range tx.Zeitscheiben {
		if _, ok := index[s.Referenz]; !ok {
			index[s.Referenz] = len(refs)
			refs = append(refs, s.Referenz)
		}
	}
	scopes := make([]Transaction, len(refs))
	for _, s := range tx.Zeitscheiben {
		scopes[index[s.Referenz]].Zeitscheiben = append(scopes[index[s.Referenz]].Zeitscheiben, s)
	}
	for _, sd := range tx.Marktlokationen {
		i, ok := index[sd.Zeitscheibe]
		if !ok {
			return nil, sliceRefError("Marktlokation", sd.Zeitscheibe)
		}
		scopes[i].Marktlokationen = append(scopes[i].Marktlokationen, sd)
	}
	for _, sd := range tx.Messlokationen {
		i, ok := index[sd.Zeitscheibe]
		if !ok {
			return nil, sliceRefError("Messlokation", sd.Zeitscheibe)
		}
		scopes[i].Messlokationen = append(scopes[i].Messlokationen, sd)
	}
	for _, sd := range tx.Zaehler {
		i, ok := index[sd.Zeitscheibe]
		if !ok {
			return nil, sliceRefError("Zaehler", sd.Zeitscheibe)
		}
		scopes[i].Zaehler = append(scopes[i].Zaehler, sd)
	}
	scopes[0].Parteien = tx.Parteien
	return scopes, nil
}

func sliceRefError(entity, ref string) error {
	return fmt.Errorf("%s references undeclared time slice %q", entity, ref)
}

// interchangeReference derives a stable envelope reference from the
// transaction identifier, truncated to the 14 characters UNB allows.
func interchangeReference(tx *Transaction) string {
	ref := tx.TransaktionsID
	if ref == "" {
		ref = strconv.FormatInt(time.Now().Unix(), 10)
	}
	if len(ref) > 14 {
		ref = ref[:14]
	}
	return ref
}
