// Package pagination derives the bounded page window shown over the
// working set.
//
// The Controller owns offset and limit, recomputes hasNext after every
// mutation batch, and reconciles its offset after removals so the window
// never points past the end of the set. Page moves run through an
// Idle/Loading state machine; a move requested while another is loading is
// rejected with services.ErrBusy.
package pagination
