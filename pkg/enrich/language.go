package enrich

import "strings"

const DEFAULT_LANGUAGE = "en"

var supportedLanguages = map[string]struct{}{
	"ar": {}, "az": {}, "de": {}, "es": {}, "en": {}, "fa": {}, "fr": {}, "id": {},
	"it": {}, "kk": {}, "ko": {}, "ky": {}, "ms": {}, "ru": {}, "tr": {}, "zh": {},
}

// IsSupportedLanguage is case insensitive.
func IsSupportedLanguage(tag string) bool {
	_, ok := supportedLanguages[strings.ToLower(strings.TrimSpace(tag))]
	return ok
}

// ResolveLanguage returns the lower-cased tag when it is supported, otherwise english.
func ResolveLanguage(tag string) string {
	if IsSupportedLanguage(tag) {
		return strings.ToLower(strings.TrimSpace(tag))
	}
	return DEFAULT_LANGUAGE
}

// SupportedLanguages returns the supported tags in alphabetical order.
func SupportedLanguages() []string {
	return []string{"ar", "az", "de", "en", "es", "fa", "fr", "id", "it", "kk", "ko", "ky", "ms", "ru", "tr", "zh"}
}
