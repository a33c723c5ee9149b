// Package workingset holds the ordered, deduplicated collection of enriched
// items that make up a job draft, together with the rule ids they reference.
//
// Rule references are counted per domain so removing the last item that
// references a rule drops it, while rules still referenced elsewhere stay.
// A Set is not safe for concurrent use; the composer session serializes
// access to it.
package workingset
