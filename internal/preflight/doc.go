// Package preflight provides readiness checks for the repository and the
// local paths modernize depends on.
//
// The CLI "modernize check" command runs RunAll and renders one status line
// per Result. Checks never return errors; failures are reported in Detail.
package preflight
