// Package rtf extracts the plain text of the rich text notes attached to
// tasks and resources.
package rtf

import (
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// destinations whose content is never part of the document text.
var ignoredDestinations = map[string]bool{
	"fonttbl":    true,
	"colortbl":   true,
	"stylesheet": true,
	"info":       true,
	"pict":       true,
	"header":     true,
	"footer":     true,
	"object":     true,
	"listtable":  true,
	"themedata":  true,
}

type group struct {
	ignore bool
	// skip is the number of fallback characters following a \u escape.
	skip int
}

// IsRTF returns whether s looks like an RTF document.
func IsRTF(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), `{\rtf`)
}

// Strip returns the text of an RTF document. Input that is not RTF is
// returned unchanged.
func Strip(s string) string {
	if !IsRTF(s) {
		return s
	}

	var out strings.Builder
	stack := []group{{skip: 1}}
	pending := 0
	top := func() *group { return &stack[len(stack)-1] }
	emit := func(r rune) {
		if pending > 0 {
			pending--
			return
		}
		if !top().ignore {
			out.WriteRune(r)
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '{':
			stack = append(stack, *top())
			pending = 0
		case '}':
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
			pending = 0
		case '\\':
			i = control(s, i+1, &stack, &pending, emit)
		case '\r', '\n':
		default:
			emit(rune(c))
		}
	}
	return strings.TrimSpace(out.String())
}

// control handles the control sequence starting at s[i] and returns the
// index of its last byte.
func control(s string, i int, stack *[]group, pending *int, emit func(rune)) int {
	if i >= len(s) {
		return i
	}
	top := &(*stack)[len(*stack)-1]

	switch c := s[i]; {
	case c == '\\' || c == '{' || c == '}':
		emit(rune(c))
		return i
	case c == '~':
		emit(' ')
		return i
	case c == '*':
		top.ignore = true
		return i
	case c == '\'':
		if i+2 < len(s) {
			if v, err := strconv.ParseUint(s[i+1:i+3], 16, 8); err == nil {
				emit(charmap.Windows1252.DecodeByte(byte(v)))
			}
			return i + 2
		}
		return len(s)
	case c == '\r' || c == '\n':
		emit('\n')
		return i
	case !isLetter(c):
		return i
	}

	start := i
	for i < len(s) && isLetter(s[i]) {
		i++
	}
	word := s[start:i]

	numStart := i
	if i < len(s) && s[i] == '-' {
		i++
	}
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	param, hasParam := 0, false
	if i > numStart {
		if v, err := strconv.Atoi(s[numStart:i]); err == nil {
			param, hasParam = v, true
		}
	}
	end := i - 1
	if i < len(s) && s[i] == ' ' {
		end = i
	}

	switch {
	case ignoredDestinations[word]:
		top.ignore = true
	case word == "par" || word == "line":
		emit('\n')
	case word == "tab":
		emit('\t')
	case word == "uc" && hasParam:
		top.skip = param
	case word == "u" && hasParam:
		if param < 0 {
			param += 0x10000
		}
		emit(rune(param))
		*pending = top.skip
	}
	return end
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
