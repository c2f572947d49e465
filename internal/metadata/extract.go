package metadata

import "errors"

// Extract runs the strategy chain over a raw descriptor:
// strict parse of the raw bytes, strict parse of the sanitized text, then
// the regex fallback over the raw bytes. The chain stops as soon as one
// attempt yields identifier, name and version. Extract never fails; an
// empty Result means nothing could be recovered.
//
// On a descriptor that decodes but is incomplete the fallback only finds
// pairs at the same key paths the structured parse reads, so it can fill a
// gap left by a non-string value but never borrows a nested author name or
// parent identifier.
func Extract(raw []byte) Result {
	var res Result

	fields, err := ParseStructured(string(raw))
	res.Attempts = append(res.Attempts, Attempt{Mode: ModeStructured, Fields: fields, Err: err})
	if err == nil && fields.Complete() {
		return res
	}

	// Well-formed JSON without an identifier gains nothing from sanitizing.
	if err != nil && !errors.Is(err, ErrMissingIdentifier) {
		fields, err = ParseStructured(Sanitize(raw))
		res.Attempts = append(res.Attempts, Attempt{Mode: ModeSanitized, Fields: fields, Err: err})
		if err == nil && fields.Complete() {
			return res
		}
	}

	fields, _ = ExtractFallback(raw)
	res.Attempts = append(res.Attempts, Attempt{Mode: ModeFallback, Fields: fields})

	return res
}
