package fbx

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// StringLossy decodes a raw "S" property's bytes as UTF-8 when valid; FBX
// files exported by older Windows-locale tools sometimes embed Latin-1
// bytes (accented author names, file paths) in string properties that
// are not valid UTF-8. Those bytes are decoded via Windows-1252 as a
// best-effort fallback rather than silently corrupting or rejecting the
// whole property, matching the lenient, best-effort tone of every other
// "malformed field" case in this parser (spec.md §7).
func (a *Attribute) StringLossy() string {
	s := a.ToString("")
	if s == "" || utf8.ValidString(s) {
		return s
	}
	decoded, err := charmap.Windows1252.NewDecoder().String(s)
	if err != nil {
		return s
	}
	return decoded
}
