// Package preflight provides readiness checks for the corpus directories,
// key files, trial lists, and key cache that prism depends on.
//
// The CLI "prism status" command runs RunAll and renders one line per check.
// Checks never fail hard; each Result carries a human-readable detail so a
// partially installed corpus can still be inspected.
package preflight
