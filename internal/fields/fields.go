package fields

// Kind describes how a column's raw text should be interpreted.
type Kind string

const (
	KindText     Kind = "text"
	KindInteger  Kind = "integer"
	KindCategory Kind = "category"
)

// Definition documents one column of a key-file record.
type Definition struct {
	Column      int      `json:"column" yaml:"column"`
	Name        string   `json:"name" yaml:"name"`
	Key         string   `json:"key" yaml:"key"`
	Kind        Kind     `json:"kind" yaml:"kind"`
	Examples    []string `json:"examples,omitempty" yaml:"examples,omitempty"`
	Description string   `json:"description" yaml:"description"`
}

// Column keys as used by the key-file loader.
const (
	KeyUniqueName      = "unique_name"
	KeyDatabase        = "database"
	KeyTarget          = "target"
	KeyURI             = "uri"
	KeyChannel         = "channel"
	KeySessionID       = "SESSION_ID"
	KeyGender          = "gender"
	KeyYearOfBirth     = "YEAR_OF_BIRTH"
	KeyYearOfRecording = "YEAR_OF_RECORDING"
	KeyAge             = "AGE"
	KeySpeechType      = "SPEECH_TYPE"
	KeyChannelType     = "CHANNEL_TYPE"
	KeyNominalLength   = "NOMINAL_LENGTH"
	KeyLanguage        = "language"
	KeyNativeLanguage  = "NATIVE_LANGUAGE"
	KeyVocalEffort     = "VOCAL_EFFORT"
)

// Count is the number of columns in a PRISM key-file record.
const Count = 16

var prism = []Definition{
	{
		Column:      1,
		Name:        "UNIQUE_NAME",
		Key:         KeyUniqueName,
		Kind:        KindText,
		Examples:    []string{"MIX05_tnfmb_a", "SWPH2_20042_b"},
		Description: "Unique segment name across the whole corpus; used as the record key.",
	},
	{
		Column:      2,
		Name:        "RDB_ID",
		Key:         KeyDatabase,
		Kind:        KindCategory,
		Examples:    []string{"MIX05", "SWCELLP1", "FISHE1"},
		Description: "Recording database the segment was taken from.",
	},
	{
		Column:      3,
		Name:        "SPEAKER_PIN",
		Key:         KeyTarget,
		Kind:        KindText,
		Examples:    []string{"10235", "MIX_44891"},
		Description: "Unique speaker identifier, consistent across and within the constituent databases.",
	},
	{
		Column:      4,
		Name:        "FILENAME",
		Key:         KeyURI,
		Kind:        KindText,
		Examples:    []string{"tnfmb", "sw_20042"},
		Description: "Base name of the original recording file, without extension.",
	},
	{
		Column:      5,
		Name:        "CHANNEL",
		Key:         KeyChannel,
		Kind:        KindCategory,
		Examples:    []string{"a", "b", "x"},
		Description: "Channel of the original recording holding the speaker; x marks a single-channel file.",
	},
	{
		Column:      6,
		Name:        "SESSION_ID",
		Key:         KeySessionID,
		Kind:        KindText,
		Examples:    []string{"tnfmb_a_tel_10235"},
		Description: "Session identifier derived from the original file name, channel, speech style and speaker id.",
	},
	{
		Column:      7,
		Name:        "GENDER",
		Key:         KeyGender,
		Kind:        KindCategory,
		Examples:    []string{"f", "m"},
		Description: "Speaker gender.",
	},
	{
		Column:      8,
		Name:        "YEAR_OF_BIRTH",
		Key:         KeyYearOfBirth,
		Kind:        KindInteger,
		Examples:    []string{"1961", "N/A"},
		Description: "Speaker year of birth when known.",
	},
	{
		Column:      9,
		Name:        "YEAR_OF_RECORDING",
		Key:         KeyYearOfRecording,
		Kind:        KindInteger,
		Examples:    []string{"2005"},
		Description: "Year the recording was collected.",
	},
	{
		Column:      10,
		Name:        "AGE",
		Key:         KeyAge,
		Kind:        KindInteger,
		Examples:    []string{"44", "N/A"},
		Description: "Speaker age at recording time when known.",
	},
	{
		Column:      11,
		Name:        "SPEECH_TYPE",
		Key:         KeySpeechType,
		Kind:        KindCategory,
		Examples:    []string{"tel", "int"},
		Description: "Speech style: telephone conversation or interview.",
	},
	{
		Column:      12,
		Name:        "CHANNEL_TYPE",
		Key:         KeyChannelType,
		Kind:        KindCategory,
		Examples:    []string{"phn", "mic"},
		Description: "Capture channel: telephone handset or room microphone.",
	},
	{
		Column:      13,
		Name:        "NOMINAL_LENGTH",
		Key:         KeyNominalLength,
		Kind:        KindInteger,
		Examples:    []string{"300", "10"},
		Description: "Nominal segment length in seconds.",
	},
	{
		Column:      14,
		Name:        "LANGUAGE",
		Key:         KeyLanguage,
		Kind:        KindCategory,
		Examples:    []string{"ENG", "USE", "ARA"},
		Description: "Language spoken in the segment.",
	},
	{
		Column:      15,
		Name:        "NATIVE_LANGUAGE",
		Key:         KeyNativeLanguage,
		Kind:        KindCategory,
		Examples:    []string{"USE", "CHI", "N/A"},
		Description: "Native language of the speaker when known.",
	},
	{
		Column:      16,
		Name:        "VOCAL_EFFORT",
		Key:         KeyVocalEffort,
		Kind:        KindCategory,
		Examples:    []string{"normal", "high", "low"},
		Description: "Vocal effort label describing the loudness of the speech.",
	},
}
