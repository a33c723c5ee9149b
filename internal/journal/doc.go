// Package journal records the jobs submitted from this machine in a local
// SQLite database.
//
// The journal never stores the working set itself; each row summarizes one
// submission attempt (name, type, counts, outcome, and the server's job
// reference). Schema creation is guarded by a file lock so concurrent CLI
// invocations do not race on a fresh database.
package journal
