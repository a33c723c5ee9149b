// Package enrich turns bare content paths into fully populated items.
//
// Each item is enriched in stages: page metadata, write-permission checks on
// the page (and its design when the job touches policies), then rule
// discovery for every enabled domain. Domains run concurrently and the item
// is rejected as a whole if any of them fails; a permission denial
// short-circuits before any rule lookup is issued. EnrichAll runs many
// items side by side and waits for all of them to settle, so one failure
// never affects its siblings.
package enrich
