// Package content defines the item model shared by the enrichment pipeline,
// the working set, and the payload builder.
//
// An Item is created in the Unknown permission state the moment a path is
// accepted, then filled in by enrichment with its title, design path, and
// the rules matched per domain. Titles are stored raw; SafeTitle returns the
// markup-escaped form for display.
package content
