// Command modernize composes content conversion jobs against a repository
// running the modernization tools and schedules them.
//
// `job create` builds a job from flags in one shot, `job wizard` drives the
// same session interactively over stdin, and `jobs` lists the submissions
// recorded in the local journal.
package main
