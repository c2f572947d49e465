package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrStructuredParse is returned when descriptor text is not a usable JSON object.
	ErrStructuredParse = errors.New("structured parse failed")
	// ErrMissingIdentifier is a structured parse failure on well-formed JSON
	// that carries no identifier.
	ErrMissingIdentifier = fmt.Errorf("%w: no identifier field", ErrStructuredParse)
)

// Accepted key paths, most specific first. Dotted paths descend into objects.
var (
	idKeys      = []string{"id", "modid", "modId", "quilt_loader.id"}
	nameKeys    = []string{"name", "quilt_loader.metadata.name"}
	versionKeys = []string{"version", "quilt_loader.version"}
)

// ParseStructured strictly decodes text as a JSON object and looks up the
// identity fields. Syntax errors, trailing data, a non-object document, or a
// missing identifier all return an error wrapping ErrStructuredParse.
// On ErrMissingIdentifier the other fields found are still returned.
func ParseStructured(text string) (Fields, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return Fields{}, fmt.Errorf("%w: %v", ErrStructuredParse, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return Fields{}, fmt.Errorf("%w: trailing data after document", ErrStructuredParse)
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return Fields{}, fmt.Errorf("%w: descriptor is not an object", ErrStructuredParse)
	}

	f := Fields{
		ID:      lookup(obj, idKeys),
		Name:    lookup(obj, nameKeys),
		Version: lookup(obj, versionKeys),
		Loader:  detectLoader(obj),
	}
	if f.ID == "" {
		return f, ErrMissingIdentifier
	}
	return f, nil
}

// lookup returns the first non-empty scalar found under any of keys.
func lookup(obj map[string]any, keys []string) string {
	for _, key := range keys {
		if v := scalarAt(obj, strings.Split(key, ".")); v != "" {
			return v
		}
	}
	return ""
}

func scalarAt(obj map[string]any, path []string) string {
	var cur any = obj
	for _, part := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur, ok = m[part]
		if !ok {
			return ""
		}
	}

	switch v := cur.(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

// detectLoader reports quilt for descriptors with a quilt_loader block or a
// dependency on quilt_loader, fabric otherwise.
func detectLoader(obj map[string]any) string {
	if _, ok := obj["quilt_loader"].(map[string]any); ok {
		return LoaderQuilt
	}
	if deps, ok := obj["depends"].(map[string]any); ok {
		if _, ok := deps["quilt_loader"]; ok {
			return LoaderQuilt
		}
	}
	return LoaderFabric
}
