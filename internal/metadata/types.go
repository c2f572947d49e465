// Package metadata turns raw mod descriptors into identity fields.
//
// Descriptors found in the wild are frequently invalid JSON: comments,
// trailing commas, raw newlines inside strings, byte-order marks. Extraction
// runs an ordered chain of strategies, each tagged with the Mode it used:
//
//	Structured  strict JSON decode of the raw bytes
//	Sanitized   strict decode after Sanitize repaired the text
//	Fallback    regular-expression scan for "id" / "name" / "version" pairs
//
// Every attempt is kept in the Result so callers can merge fields from
// different stages (identifier from the strict parse, version from the
// fallback, and so on).
package metadata

// Mode records which extraction path produced a value.
type Mode string

const (
	ModeStructured Mode = "structured"
	ModeSanitized  Mode = "sanitized"
	ModeFallback   Mode = "fallback"
	ModeUnknown    Mode = "unknown"
)

// Loader names recognized in descriptors.
const (
	LoaderFabric = "fabric"
	LoaderQuilt  = "quilt"
)

// Fields holds the identity values recovered from one descriptor.
type Fields struct {
	ID      string
	Name    string
	Version string
	Loader  string
}

// Empty reports whether no identity field was recovered.
func (f Fields) Empty() bool {
	return f.ID == "" && f.Name == "" && f.Version == ""
}

// Complete reports whether identifier, name and version are all present.
func (f Fields) Complete() bool {
	return f.ID != "" && f.Name != "" && f.Version != ""
}

// Attempt is the outcome of one strategy in the chain.
type Attempt struct {
	Mode   Mode
	Fields Fields
	Err    error // nil on success; fallback never sets it
}

// Result collects attempts in the order they ran.
type Result struct {
	Attempts []Attempt
}

// Succeeded reports whether any attempt recovered an identity field.
func (r Result) Succeeded() bool {
	for _, a := range r.Attempts {
		if !a.Fields.Empty() {
			return true
		}
	}
	return false
}
