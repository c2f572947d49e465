package metadata

import "strings"

const bom = "\uFEFF"

// Sanitize repairs common descriptor malformations so the text can be fed to
// a strict JSON decoder. It never fails; the output is a best guess.
//
// Repairs, all applied in a single pass that tracks string literals:
//   - leading byte-order marks are stripped (stray ones become spaces)
//   - // line and /* */ block comments outside strings are removed
//   - commas directly before } or ] are removed
//   - raw newlines and tabs inside strings become \n and \t escapes, raw
//     carriage returns are dropped, other control bytes become spaces;
//     outside strings control bytes become spaces
//
// Sanitize is a fixed point: Sanitize(Sanitize(x)) == Sanitize(x).
// Block comments are replaced with a single space, never deleted outright.
func Sanitize(raw []byte) string {
	s := strings.ToValidUTF8(string(raw), "\uFFFD")
	s = strings.TrimLeft(s, bom)

	out := make([]byte, 0, len(s))
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
				if c < 0x20 {
					// Backslash followed by a raw control: turn it into a real escape.
					out = append(out, escapedControl(c)...)
					continue
				}
				out = append(out, c)
			case c == '\\':
				escaped = true
				out = append(out, c)
			case c == '"':
				inString = false
				out = append(out, c)
			case c == '\n':
				out = append(out, '\\', 'n')
			case c == '\r':
				// Dropped; CRLF inside a string becomes a single \n.
			case c == '\t':
				out = append(out, '\\', 't')
			case c < 0x20:
				out = append(out, ' ')
			default:
				out = append(out, c)
			}
			continue
		}

		switch {
		case c == '"':
			inString = true
			out = append(out, c)
		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			j := i + 2
			for j < len(s) && s[j] != '\n' && s[j] != '\r' {
				j++
			}
			i = j - 1
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				i = len(s)
			} else {
				i += 2 + end + 1
			}
			out = append(out, ' ')
		case c == '}' || c == ']':
			out = trimTrailingComma(out)
			out = append(out, c)
		case strings.HasPrefix(s[i:], bom):
			out = append(out, ' ')
			i += len(bom) - 1
		case c == '\t' || c == '\n' || c == '\r':
			out = append(out, c)
		case c < 0x20 || c == 0x7f:
			out = append(out, ' ')
		default:
			out = append(out, c)
		}
	}

	return string(out)
}

// escapedControl returns the escape letter(s) that follow a backslash for
// control byte c.
func escapedControl(c byte) string {
	switch c {
	case '\n':
		return "n"
	case '\r':
		return "r"
	case '\t':
		return "t"
	default:
		return "u0020"
	}
}

// trimTrailingComma removes commas (and the whitespace between them) that
// end out, keeping the whitespace that followed the last comma.
func trimTrailingComma(out []byte) []byte {
	k := len(out)
	for k > 0 && isSpace(out[k-1]) {
		k--
	}
	if k == 0 || out[k-1] != ',' {
		return out
	}

	m := k
	for m > 0 && (out[m-1] == ',' || isSpace(out[m-1])) {
		m--
	}
	tail := append([]byte(nil), out[k:]...)
	return append(out[:m], tail...)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
