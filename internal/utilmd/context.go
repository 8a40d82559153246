package utilmd

import "example.com/edigate/internal/bo4e"

// Context is the mutable per-transaction state shared by every mapper
// invocation. One physical message may contain several logical transactions
// that share the envelope identity, so Reset clears only the
// transaction-scoped fields.
type Context struct {
	Version        FormatVersion
	InterchangeRef string

	// Message-scoped identity, set from the envelope and NAD+MS/MR.
	Absender   bo4e.Marktteilnehmer
	Empfaenger bo4e.Marktteilnehmer

	// Transaction-scoped state.
	MessageRef         string
	Pruefidentifikator string
	// ZeitscheibenRef is the reference of the time slice currently in
	// effect; entities accumulated while it is set carry it as a
	// back-reference.
	ZeitscheibenRef string
}

// Reset clears the transaction-scoped fields while preserving the format
// version, interchange reference and sender/recipient identity.
func (c *Context) Reset() {
	c.MessageRef = ""
	c.Pruefidentifikator = ""
	c.ZeitscheibenRef = ""
}
