package keys

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"prism/internal/fields"
)

// ErrFieldCount indicates a line that does not hold exactly one value per column.
var ErrFieldCount = errors.New("wrong number of fields")

// ParseError locates a malformed key-file line.
type ParseError struct {
	Source string
	Line   int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Int is an integer column that may carry a missing-value placeholder.
type Int struct {
	Value int
	Known bool
}

func (i Int) String() string {
	if !i.Known {
		return "-"
	}
	return strconv.Itoa(i.Value)
}

// Channel is the numeric audio channel of a segment.
type Channel int

// ParseChannel translates the key-file channel letter; single-channel
// recordings (x) map to the first channel.
func ParseChannel(value string) (Channel, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "a", "x", "1":
		return 1, nil
	case "b", "2":
		return 2, nil
	default:
		return 0, fmt.Errorf("unknown channel %q", value)
	}
}

// Record is one key-file row.
type Record struct {
	UniqueName      string
	Database        string
	Target          string
	URI             string
	Channel         Channel
	SessionID       string
	Gender          string
	YearOfBirth     Int
	YearOfRecording Int
	Age             Int
	SpeechType      string
	ChannelType     string
	NominalLength   Int
	Language        string
	NativeLanguage  string
	VocalEffort     string

	raw [fields.Count]string
}

var missingTokens = map[string]struct{}{
	"":    {},
	"-":   {},
	"?":   {},
	"na":  {},
	"n/a": {},
	"nan": {},
}

const channelColumn = 4

// ParseLine parses a whitespace-separated key-file line.
func ParseLine(line string) (Record, error) {
	return ParseValues(strings.Fields(line))
}

// ParseValues builds a record from values in catalog column order.
func ParseValues(values []string) (Record, error) {
	if len(values) != fields.Count {
		return Record{}, fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(values), fields.Count)
	}

	var rec Record
	copy(rec.raw[:], values)

	rec.UniqueName = values[0]
	rec.Database = values[1]
	rec.Target = values[2]
	rec.URI = values[3]
	channel, err := ParseChannel(values[channelColumn])
	if err != nil {
		return Record{}, err
	}
	rec.Channel = channel
	rec.SessionID = values[5]
	rec.Gender = values[6]
	if rec.YearOfBirth, err = parseInt(fields.KeyYearOfBirth, values[7]); err != nil {
		return Record{}, err
	}
	if rec.YearOfRecording, err = parseInt(fields.KeyYearOfRecording, values[8]); err != nil {
		return Record{}, err
	}
	if rec.Age, err = parseInt(fields.KeyAge, values[9]); err != nil {
		return Record{}, err
	}
	rec.SpeechType = values[10]
	rec.ChannelType = values[11]
	if rec.NominalLength, err = parseInt(fields.KeyNominalLength, values[12]); err != nil {
		return Record{}, err
	}
	rec.Language = values[13]
	rec.NativeLanguage = values[14]
	rec.VocalEffort = values[15]
	return rec, nil
}

func parseInt(key, value string) (Int, error) {
	if _, missing := missingTokens[strings.ToLower(value)]; missing {
		return Int{}, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return Int{}, fmt.Errorf("%s: invalid integer %q", key, value)
	}
	return Int{Value: n, Known: true}, nil
}

// Values returns the raw column values in catalog order.
func (r Record) Values() []string {
	out := make([]string, len(r.raw))
	copy(out, r.raw[:])
	return out
}

// Value returns the value of a column named by catalog key or name. The
// channel column reads as its number; every other column is raw text.
func (r Record) Value(name string) (string, bool) {
	i, ok := fields.Default().Index(name)
	if !ok {
		return "", false
	}
	return r.column(i), true
}

// Map returns the record as catalog key to value, with the channel translated
// like Value.
func (r Record) Map() map[string]string {
	keys := fields.Default().Keys()
	out := make(map[string]string, len(keys))
	for i, key := range keys {
		out[key] = r.column(i)
	}
	return out
}

func (r Record) column(i int) string {
	if i == channelColumn {
		return strconv.Itoa(int(r.Channel))
	}
	return r.raw[i]
}

// Line renders the record in key-file form.
func (r Record) Line() string {
	return strings.Join(r.raw[:], " ")
}

func (r Record) sameRow(other Record) bool {
	return r.raw == other.raw
}
