// Package langmap maps the ISO 639-1 speech-recognition language codes
// carried on IR words to the BCP-47 tags the editor-JSON emitter writes
// to its "language" field.
package langmap

import "golang.org/x/text/language"

// UnknownTag is returned by [Lookup] for a code absent from the table.
const UnknownTag = "??-??"

// table is the fixed ISO 639-1 -> BCP-47 mapping from spec.md §6. Every
// value is validated against golang.org/x/text/language at package init,
// so the table can never silently drift into an invalid tag — a failure
// here is a programmer error in this file, not a runtime condition.
var table = map[string]string{
	"sv": "sv-SE",
	"en": "en-US",
	"da": "da-DK",
	"no": "nb-NO",
	"fi": "fi-FI",
	"de": "de-DE",
	"fr": "fr-FR",
	"es": "es-ES",
	"nl": "nl-NL",
	"it": "it-IT",
	"pt": "pt-BR",
	"ja": "ja-JP",
	"ko": "ko-KR",
	"zh": "cmn-Hans",
	"ar": "ar-SA",
	"ru": "ru-RU",
	"pl": "pl-PL",
	"tr": "tr-TR",
	"hi": "hi-IN",
}

func init() {
	for code, tag := range table {
		if _, err := language.Parse(tag); err != nil {
			panic("langmap: table entry " + code + " -> " + tag + " is not a valid BCP-47 tag: " + err.Error())
		}
	}
}

// Lookup returns the BCP-47 tag for the given ISO 639-1 code. unknown is
// true and the returned tag is [UnknownTag] when code is absent from the
// table or empty — callers surface this as a non-fatal warning (spec.md
// §7's UnknownLanguage kind).
func Lookup(code string) (tag string, unknown bool) {
	if tag, ok := table[code]; ok {
		return tag, false
	}
	return UnknownTag, true
}
