package language

import (
	"strings"

	"golang.org/x/text/cases"
	xlanguage "golang.org/x/text/language"
)

type entry struct {
	code    string // PRISM/LDC code
	code2   string // ISO 639-1
	display string
	english bool
}

var languages = []entry{
	{"ENG", "en", "English", true},
	{"USE", "en", "English (US)", true},
	{"ARA", "ar", "Arabic", false},
	{"BEN", "bn", "Bengali", false},
	{"CHI", "zh", "Chinese", false},
	{"MAN", "zh", "Mandarin", false},
	{"CAN", "zh", "Cantonese", false},
	{"FAR", "fa", "Farsi", false},
	{"FRE", "fr", "French", false},
	{"GER", "de", "German", false},
	{"HIN", "hi", "Hindi", false},
	{"ITA", "it", "Italian", false},
	{"JPN", "ja", "Japanese", false},
	{"KOR", "ko", "Korean", false},
	{"RUS", "ru", "Russian", false},
	{"SPA", "es", "Spanish", false},
	{"TAG", "tl", "Tagalog", false},
	{"THA", "th", "Thai", false},
	{"URD", "ur", "Urdu", false},
	{"UZB", "uz", "Uzbek", false},
	{"VIE", "vi", "Vietnamese", false},
}

var byCode map[string]*entry

func init() {
	byCode = make(map[string]*entry, len(languages))
	for i := range languages {
		byCode[languages[i].code] = &languages[i]
	}
}

var titleCaser = cases.Title(xlanguage.English)

func lookup(code string) *entry {
	return byCode[strings.ToUpper(strings.TrimSpace(code))]
}

// DisplayName returns a human-readable name for a PRISM language code.
// Returns "Unknown" for empty input and a title-cased code otherwise.
func DisplayName(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return "Unknown"
	}
	if e := lookup(code); e != nil {
		return e.display
	}
	return titleCaser.String(strings.ToLower(code))
}

// ToISO2 converts a PRISM language code to ISO 639-1. Returns an empty
// string for unrecognized input.
func ToISO2(code string) string {
	if e := lookup(code); e != nil {
		return e.code2
	}
	return ""
}

// EnglishCodes returns the PRISM codes used for English speech.
func EnglishCodes() []string {
	var out []string
	for _, e := range languages {
		if e.english {
			out = append(out, e.code)
		}
	}
	return out
}
