package core

// FileFormat is the version of the account file an account document was written with.
type FileFormat int

const (
	// FormatV2 stored the session tokens as top-level keys of the account object.
	FormatV2 FileFormat = 2
	// FormatV3 stores them in a "tokens" object.
	FormatV3 FileFormat = 3

	CurrentFormat = FormatV3
)

func (f FileFormat) Supported() bool {
	return f == FormatV2 || f == FormatV3
}

// Document is a structured key/value tree as produced by decoding JSON into an any:
// values are string, bool, float64, []any or map[string]any.
type Document map[string]any

// String returns the string at key. ok is false if the key is absent,
// err is set if it is present with another type.
func (d Document) String(key string) (string, bool, error) {
	raw, ok := d[key]
	if !ok || raw == nil {
		return "", false, nil
	}
	str, isStr := raw.(string)
	if !isStr {
		return "", true, NewFormatError(key, "expected string, got %T", raw)
	}
	return str, true, nil
}

// Object returns the nested object at key.
func (d Document) Object(key string) (Document, bool, error) {
	raw, ok := d[key]
	if !ok || raw == nil {
		return nil, false, nil
	}
	switch obj := raw.(type) {
	case map[string]any:
		return obj, true, nil
	case Document:
		return obj, true, nil
	default:
		return nil, true, NewFormatError(key, "expected object, got %T", raw)
	}
}

// Array returns the sequence at key.
func (d Document) Array(key string) ([]any, bool, error) {
	raw, ok := d[key]
	if !ok || raw == nil {
		return nil, false, nil
	}
	switch arr := raw.(type) {
	case []any:
		return arr, true, nil
	case []map[string]any:
		out := make([]any, len(arr))
		for i, v := range arr {
			out[i] = v
		}
		return out, true, nil
	default:
		return nil, true, NewFormatError(key, "expected array, got %T", raw)
	}
}
