// Package payload derives the job description submitted to the scheduling
// endpoint from a working-set snapshot and the operator's options.
//
// Build never performs I/O. Validation failures are returned as
// *ValidationError with one message per offending field so callers can
// point at each one without contacting the server.
package payload
