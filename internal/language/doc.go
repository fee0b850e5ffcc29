// Package language maps the language codes found in PRISM key files to
// display names and ISO 639-1 codes.
//
// PRISM inherits three-letter codes from the LDC collections it was built
// from. Most match ISO 639-2, but a few are corpus-specific, such as USE for
// American English.
package language
