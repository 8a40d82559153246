package utilmd

import "example.com/edigate/internal/edifact"

// SegmentHandler consumes parsed segments it recognizes. CanHandle must be
// cheap; several handlers may claim the same segment identifier when keyed
// on different qualifier values.
type SegmentHandler interface {
	CanHandle(seg *edifact.Segment) bool
	Handle(seg *edifact.Segment, ctx *Context) error
}

// Builder accumulates one typed value across many segment-handler calls.
// Finalize produces the accumulated value and clears the accumulation;
// Reset re-arms the builder independently of Finalize.
type Builder[T any] interface {
	Empty() bool
	Finalize() T
	Reset()
}

// EntityWriter serializes finalized business values back into wire segments,
// emitting the same segment and qualifier shapes its mapping counterpart
// consumes.
type EntityWriter interface {
	Write(tx *Transaction, ctx *Context, w *edifact.InterchangeWriter) error
}

// Mapper binds both directions for one entity under one format version.
// Flush moves every non-empty accumulated value into the transaction
// aggregate and re-arms the mapper for the next transaction.
type Mapper interface {
	SegmentHandler
	EntityWriter
	Version() FormatVersion
	Flush(tx *Transaction) error
	Reset()
}
