package protocol

import (
	"slices"

	"prism/internal/keys"
)

// Criteria selects key records for a train subset. Zero-valued fields do
// not constrain the match.
type Criteria struct {
	Gender              string
	Languages           []string
	MinNominalLength    int // exclusive; records of unknown length never match when set
	SpeechType          string
	ChannelType         string
	ExcludeVocalEfforts []string
	ExcludeDatabase     string
	RestrictToDatabase  string
}

// Match reports whether rec satisfies every constraint.
func (c Criteria) Match(rec keys.Record) bool {
	if c.Gender != "" && rec.Gender != c.Gender {
		return false
	}
	if len(c.Languages) > 0 && !slices.Contains(c.Languages, rec.Language) {
		return false
	}
	if c.MinNominalLength > 0 && (!rec.NominalLength.Known || rec.NominalLength.Value <= c.MinNominalLength) {
		return false
	}
	if c.SpeechType != "" && rec.SpeechType != c.SpeechType {
		return false
	}
	if c.ChannelType != "" && rec.ChannelType != c.ChannelType {
		return false
	}
	if slices.Contains(c.ExcludeVocalEfforts, rec.VocalEffort) {
		return false
	}
	if c.ExcludeDatabase != "" && rec.Database == c.ExcludeDatabase {
		return false
	}
	if c.RestrictToDatabase != "" && rec.Database != c.RestrictToDatabase {
		return false
	}
	return true
}
