// Package services defines shared utilities consumed by the composer session,
// the enrichment pipeline, and the repository client.
//
// Key responsibilities:
//   - Context helpers that stamp session IDs, content paths, and correlation
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that translate failures
//     into the operator-facing taxonomy (permission denied, lookup failure,
//     duplicate selection, validation failure, submission failure).
//
// Use these helpers when wiring new lookups or session operations so error
// classification and observability stay uniform across the job composer.
package services
