// Package language normalizes language tags and declares the grammar profile
// of every supported study language. Profiles are static, compile-time data
// selected through a lookup table; nothing is generated at runtime.
package language

import (
	"sort"
	"strings"
)

// Profile describes which grammatical axes matter for conjugations in a
// language, and whether speech synthesis is available for it.
type Profile struct {
	Code          string
	Name          string
	HasGender     bool
	HasCase       bool
	HasPoliteness bool
	TTSSupported  bool
}

// profiles is the full set of study languages. Adding a language means adding
// a row here, nothing else.
var profiles = map[string]Profile{
	"en": {Code: "en", Name: "English", TTSSupported: true},
	"nl": {Code: "nl", Name: "Dutch", HasGender: true, TTSSupported: true},
	"de": {Code: "de", Name: "German", HasGender: true, HasCase: true, HasPoliteness: true, TTSSupported: true},
	"fr": {Code: "fr", Name: "French", HasGender: true, HasPoliteness: true, TTSSupported: true},
	"es": {Code: "es", Name: "Spanish", HasGender: true, HasPoliteness: true, TTSSupported: true},
	"it": {Code: "it", Name: "Italian", HasGender: true, HasPoliteness: true, TTSSupported: true},
	"pt": {Code: "pt", Name: "Portuguese", HasGender: true, HasPoliteness: true, TTSSupported: true},
	"ru": {Code: "ru", Name: "Russian", HasGender: true, HasCase: true, TTSSupported: true},
	"ja": {Code: "ja", Name: "Japanese", HasPoliteness: true, TTSSupported: true},
	"ko": {Code: "ko", Name: "Korean", HasPoliteness: true, TTSSupported: true},
	"zh": {Code: "zh", Name: "Chinese", TTSSupported: true},
}

// Lookup returns the profile for a raw language tag, normalizing it first.
func Lookup(raw string) (Profile, bool) {
	profile, ok := profiles[NormalizeCode(raw)]
	return profile, ok
}

// Supported reports whether a raw language tag names a study language.
func Supported(raw string) bool {
	_, ok := Lookup(raw)
	return ok
}

// Codes returns the sorted list of supported primary subtags.
func Codes() []string {
	codes := make([]string, 0, len(profiles))
	for code := range profiles {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// NormalizeTag normalizes a language tag to lowercase and "-" separators.
// Returns an empty string when the value is blank or contains invalid characters.
func NormalizeTag(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return ""
	}

	trimmed = strings.ReplaceAll(trimmed, "_", "-")
	parts := strings.Split(trimmed, "-")
	normalized := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !isAlphaLower(part) {
			return ""
		}
		normalized = append(normalized, part)
	}

	if len(normalized) == 0 {
		return ""
	}
	return strings.Join(normalized, "-")
}

// NormalizeCode returns the primary language subtag (for example, "en" from "en-US").
func NormalizeCode(raw string) string {
	tag := NormalizeTag(raw)
	if tag == "" {
		return ""
	}
	if dash := strings.IndexByte(tag, '-'); dash >= 0 {
		return tag[:dash]
	}
	return tag
}

func isAlphaLower(value string) bool {
	for _, r := range value {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
