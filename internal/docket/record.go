// Package docket turns the remote service's loosely structured docket
// responses into deduplicated, filterable, deterministically ordered
// document records.
package docket

import "time"

// Record is one entry in a case docket. Only ScanPosition is guaranteed to
// be present; everything else depends on what the response happened to
// carry, and where.
type Record struct {
	// ID is the opaque document identifier, unique after dedup.
	ID string
	// CategoryCode classifies the document; empty when the response
	// omitted it.
	CategoryCode string
	// InsertionOrder is the service's explicit rank, when present and
	// purely numeric.
	InsertionOrder *int
	// InsertionTime is the parsed insertion timestamp; nil when missing
	// or unparseable.
	InsertionTime *time.Time
	// InsertionTimeRaw keeps the original timestamp text for
	// year-matching when parsing failed.
	InsertionTimeRaw string
	// ScanPosition is the traversal-order sequence number assigned at
	// extraction time, before dedup. Final sort tie-break.
	ScanPosition int
}

// Retrieved pairs a document id with its decoded payload. It lives only
// long enough to be classified and persisted.
type Retrieved struct {
	ID      string
	Payload []byte
}
