// Package protocol builds the PRISM speaker-recognition protocols from a
// loaded key table.
//
// Each protocol yields items for five subsets: train, dev enroll/test and
// test enroll/test. SRE10 protocols exist for conditions 1 through 9 and both
// genders; their train subset is a filtered view of the key table while the
// test subsets come from the SRE10 condition lists shipped with the corpus.
// A Registry maps protocol names such as SRE10_c05_f to factories.
package protocol
