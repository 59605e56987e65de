package postman

import "encoding/json"

// Format identifies a detected interchange payload.
type Format string

const (
	FormatCollection  Format = "collection"
	FormatEnvironment Format = "environment"
	FormatNative      Format = "native"
	FormatUnknown     Format = "unknown"
)

// DetectFormat inspects raw JSON and reports what it holds. Postman
// collections are recognized by info plus item, environments by name plus
// values. A top-level array is a native bulk collection export.
func DetectFormat(data []byte) Format {
	var obj map[string]json.RawMessage
	if json.Unmarshal(data, &obj) != nil {
		var arr []json.RawMessage
		if json.Unmarshal(data, &arr) == nil {
			return FormatNative
		}
		return FormatUnknown
	}
	if _, hasInfo := obj["info"]; hasInfo {
		if _, hasItem := obj["item"]; hasItem {
			return FormatCollection
		}
	}
	if _, hasName := obj["name"]; hasName {
		if _, hasValues := obj["values"]; hasValues {
			return FormatEnvironment
		}
	}
	return FormatUnknown
}
