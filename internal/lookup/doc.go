// Package lookup wraps the repository's JSON endpoints used while composing
// a conversion job: permission checks, page metadata, per-domain rule
// matching, child and sub-path discovery, and job scheduling.
//
// Every call is a single attempt. Failures come back as errors tagged with
// services.ErrLookup, except job scheduling which reports *SubmissionError
// carrying the server's message verbatim.
package lookup
