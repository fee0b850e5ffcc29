// Package corpus describes the PRISM data directory: which constituent
// databases exist and where their key files and SRE10 trial lists live.
package corpus
