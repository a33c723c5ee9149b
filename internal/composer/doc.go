// Package composer owns a job-composition session: the working set, its
// page window, in-flight enrichments, and submission.
//
// A Session is a single logical actor. One mutex serializes every state
// change while network calls run outside it, so selections, removals, and
// page moves may be issued from any goroutine. Each selection batch is
// enriched with an all-settled join and the window is refreshed once per
// batch. Results for paths removed while their enrichment was in flight are
// discarded. While a submission is in flight the working set is frozen.
//
// Operator-facing outcomes (duplicates, denials, lookup failures, server
// rejections) are reported through a Notifier as Notice values.
package composer
