package metadata

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Go's regexp is RE2: matching is linear in the input, so adversarial
// descriptors cannot trigger catastrophic backtracking.
var (
	fallbackID      = keyPattern("id")
	fallbackName    = keyPattern("name")
	fallbackVersion = keyPattern("version")
)

// Objects a fallback key may sit in, derived from the structured key paths:
// "id" is accepted at the top level or inside quilt_loader, never inside
// authors, contact or custom blocks.
var (
	idContainers      = containersFor("id", idKeys)
	nameContainers    = containersFor("name", nameKeys)
	versionContainers = containersFor("version", versionKeys)
)

// keyPattern matches "key" : "value" with arbitrary whitespace around the
// colon. The value may contain escaped quotes but must be non-empty.
func keyPattern(key string) *regexp.Regexp {
	return regexp.MustCompile(`"` + regexp.QuoteMeta(key) + `"\s*:\s*"((?:[^"\\]|\\.)+)"`)
}

func containersFor(key string, paths []string) [][]string {
	var out [][]string
	for _, p := range paths {
		parts := strings.Split(p, ".")
		if parts[len(parts)-1] == key {
			out = append(out, parts[:len(parts)-1])
		}
	}
	return out
}

// ExtractFallback scans raw descriptor bytes for id, name and version
// key/value pairs regardless of whether the document as a whole parses.
// A pair only counts when it sits where ParseStructured would look for it,
// so an author's "name" or a parent mod's "id" is never picked up. The
// first accepted match of each key wins. ok is false when nothing was found.
func ExtractFallback(raw []byte) (f Fields, ok bool) {
	f = Fields{
		ID:      firstMatch(fallbackID, raw, idContainers),
		Name:    firstMatch(fallbackName, raw, nameContainers),
		Version: firstMatch(fallbackVersion, raw, versionContainers),
	}
	return f, !f.Empty()
}

func firstMatch(re *regexp.Regexp, raw []byte, containers [][]string) string {
	st := &nesting{raw: raw}
	for off := 0; off < len(raw); {
		loc := re.FindSubmatchIndex(raw[off:])
		if loc == nil {
			break
		}
		st.advance(off + loc[0])
		if st.atKey() && st.within(containers) {
			if v := cleanValue(string(raw[off+loc[2] : off+loc[3]])); v != "" {
				return v
			}
		}
		off += loc[1]
	}
	return ""
}

// cleanValue decodes JSON escapes when possible and folds any raw line
// breaks into single spaces. Invalid UTF-8 becomes U+FFFD, as it would
// after a JSON round trip.
func cleanValue(v string) string {
	var decoded string
	if err := json.Unmarshal([]byte(`"`+v+`"`), &decoded); err == nil {
		v = decoded
	}
	v = strings.ToValidUTF8(v, string(utf8.RuneError))
	return strings.Join(strings.Fields(v), " ")
}

// nesting follows the object structure of possibly broken JSON text. It
// tracks string literals, comments and the key each open object was
// stored under. It only moves forward.
type nesting struct {
	raw []byte
	pos int

	// stack holds one entry per open container: the key of an object
	// ("" for the root or an array element) or "[" for an array.
	stack []string

	inString     bool
	escaped      bool
	lineComment  bool
	blockComment bool
	strStart     int
	lastString   string
	haveString   bool
	pendingKey   string
}

func (n *nesting) advance(to int) {
	for ; n.pos < to && n.pos < len(n.raw); n.pos++ {
		c := n.raw[n.pos]
		switch {
		case n.lineComment:
			if c == '\n' {
				n.lineComment = false
			}
		case n.blockComment:
			if c == '*' && n.peek() == '/' {
				n.blockComment = false
				n.pos++
			}
		case n.inString:
			switch {
			case n.escaped:
				n.escaped = false
			case c == '\\':
				n.escaped = true
			case c == '"':
				n.inString = false
				n.lastString = string(n.raw[n.strStart:n.pos])
				n.haveString = true
			}
		default:
			n.structural(c)
		}
	}
}

func (n *nesting) structural(c byte) {
	switch c {
	case '"':
		n.inString = true
		n.strStart = n.pos + 1
	case ':':
		if n.haveString {
			n.pendingKey = n.lastString
		}
		n.haveString = false
	case '{':
		n.stack = append(n.stack, n.pendingKey)
		n.pendingKey, n.haveString = "", false
	case '[':
		n.stack = append(n.stack, "[")
		n.pendingKey, n.haveString = "", false
	case '}', ']':
		if len(n.stack) > 0 {
			n.stack = n.stack[:len(n.stack)-1]
		}
		n.pendingKey, n.haveString = "", false
	case ',':
		n.pendingKey, n.haveString = "", false
	case '/':
		switch n.peek() {
		case '/':
			n.lineComment = true
			n.pos++
		case '*':
			n.blockComment = true
			n.pos++
		}
	case ' ', '\t', '\n', '\r':
	default:
		n.haveString = false
	}
}

func (n *nesting) peek() byte {
	if n.pos+1 < len(n.raw) {
		return n.raw[n.pos+1]
	}
	return 0
}

// atKey reports whether the current position can start a key: outside any
// string literal or comment.
func (n *nesting) atKey() bool {
	return !n.inString && !n.lineComment && !n.blockComment
}

// within reports whether the innermost open object is one of containers.
// Text with no enclosing object counts as the top level.
func (n *nesting) within(containers [][]string) bool {
	path := n.stack
	if len(path) > 0 {
		path = path[1:]
	}
	for _, c := range containers {
		if equalPath(path, c) {
			return true
		}
	}
	return false
}

func equalPath(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
