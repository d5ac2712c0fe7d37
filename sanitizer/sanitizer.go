// FILE: ultralog/sanitizer/sanitizer.go
// Package sanitizer rewrites untrusted text so it cannot break the
// one-record-per-line log format, using rules of bitwise filter flags and
// transforms.
package sanitizer

import (
	"encoding/hex"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Filter flags for character matching
const (
	FilterNonPrintable uint64 = 1 << iota // Matches runes not classified as printable by strconv.IsPrint
	FilterControl                         // Matches control characters (unicode.IsControl)
	FilterLineBreak                       // Matches '\n' and '\r'
)

// Transform flags for character transformation
const (
	TransformStrip     uint64 = 1 << iota // Removes the character
	TransformHexEncode                    // Encodes the character's UTF-8 bytes as "<XXYY>"
	TransformEscape                       // Backslash escapes ('\n' -> "\n"), hex for the rest
)

// PolicyPreset defines pre-configured sanitization policies
type PolicyPreset string

const (
	PolicyRaw  PolicyPreset = "raw"  // Raw is a no-op (passthrough)
	PolicyTxt  PolicyPreset = "txt"  // Hex-encodes every non-printable rune
	PolicyLine PolicyPreset = "line" // Escapes line breaks, hex-encodes other control runes
)

type rule struct {
	filter    uint64
	transform uint64
}

var policyRules = map[PolicyPreset][]rule{
	PolicyRaw: {},
	PolicyTxt: {{filter: FilterNonPrintable, transform: TransformHexEncode}},
	PolicyLine: {
		{filter: FilterLineBreak, transform: TransformEscape},
		{filter: FilterControl, transform: TransformHexEncode},
	},
}

// Sanitizer holds an ordered rule list. It is immutable after construction
// and safe for concurrent use.
type Sanitizer struct {
	rules []rule
}

// New creates a passthrough Sanitizer
func New() *Sanitizer {
	return &Sanitizer{}
}

// Rule appends a custom rule; earlier rules win
func (s *Sanitizer) Rule(filter uint64, transform uint64) *Sanitizer {
	s.rules = append(s.rules, rule{filter: filter, transform: transform})
	return s
}

// Policy appends the rules of a preset
func (s *Sanitizer) Policy(preset PolicyPreset) *Sanitizer {
	if rules, ok := policyRules[preset]; ok {
		s.rules = append(s.rules, rules...)
	}
	return s
}

// Sanitize applies the configured rules to the input string
func (s *Sanitizer) Sanitize(data string) string {
	if len(s.rules) == 0 || clean(data, s.rules) {
		return data
	}

	buf := make([]byte, 0, len(data)+16)
	for _, r := range data {
		matched := false
		for _, rl := range s.rules {
			if matches(r, rl.filter) {
				buf = apply(buf, r, rl.transform)
				matched = true
				break
			}
		}
		if !matched {
			buf = utf8.AppendRune(buf, r)
		}
	}
	return string(buf)
}

// clean reports whether no rune of data matches any rule
func clean(data string, rules []rule) bool {
	for _, r := range data {
		for _, rl := range rules {
			if matches(r, rl.filter) {
				return false
			}
		}
	}
	return true
}

func matches(r rune, mask uint64) bool {
	if mask&FilterNonPrintable != 0 && !strconv.IsPrint(r) {
		return true
	}
	if mask&FilterControl != 0 && unicode.IsControl(r) {
		return true
	}
	if mask&FilterLineBreak != 0 && (r == '\n' || r == '\r') {
		return true
	}
	return false
}

func apply(buf []byte, r rune, transform uint64) []byte {
	switch {
	case transform&TransformStrip != 0:
		return buf

	case transform&TransformEscape != 0:
		switch r {
		case '\n':
			return append(buf, '\\', 'n')
		case '\r':
			return append(buf, '\\', 'r')
		case '\t':
			return append(buf, '\\', 't')
		}
		return appendHex(buf, r)

	case transform&TransformHexEncode != 0:
		return appendHex(buf, r)
	}
	return utf8.AppendRune(buf, r)
}

func appendHex(buf []byte, r rune) []byte {
	var runeBytes [utf8.UTFMax]byte
	n := utf8.EncodeRune(runeBytes[:], r)
	buf = append(buf, '<')
	buf = hex.AppendEncode(buf, runeBytes[:n])
	return append(buf, '>')
}
