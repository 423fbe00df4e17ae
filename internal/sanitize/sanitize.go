// Package sanitize turns untrusted query payloads into canonical lookup keys.
package sanitize

import (
	"strings"
	"unicode"
)

// trailingJunk is stripped from the end of the decoded payload only.
const trailingJunk = "\x00\r\n"

// Sanitize decodes raw as UTF-8 and normalizes it into a canonical key.
//
// Steps, in order:
//  1. Invalid UTF-8 sequences are dropped (not replaced).
//  2. Trailing NUL, CR and LF characters are removed.
//  3. If stripCtrl is set, every non-printable rune is removed.
//  4. Leading and trailing whitespace is trimmed.
//
// It never fails; empty or undecodable input yields "".
func Sanitize(raw []byte, stripCtrl bool) string {
	text := strings.ToValidUTF8(string(raw), "")
	text = strings.TrimRight(text, trailingJunk)
	if stripCtrl {
		text = strings.Map(func(r rune) rune {
			if unicode.IsPrint(r) {
				return r
			}
			return -1
		}, text)
	}
	return strings.TrimSpace(text)
}

// Canonical is Sanitize with control-character stripping enabled, the form
// used by every search strategy.
func Canonical(raw []byte) string {
	return Sanitize(raw, true)
}

// Line normalizes one line read from a lookup file: undecodable bytes are
// dropped and surrounding whitespace trimmed. The line terminator must
// already be removed.
func Line(line string) string {
	return strings.TrimSpace(strings.ToValidUTF8(line, ""))
}
