// Package variant supplies the per-job-type policies injected into the
// shared pipeline, working set, and payload builder.
//
// A Policy decides which rule domains are discovered, whether the page's
// design path needs its own write check, which paths an item contributes
// to the submission, and how an item is laid out as a table row.
package variant
