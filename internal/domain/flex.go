package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// FlexKind tags the wire representation a flexible list field arrived in.
type FlexKind int

const (
	FlexAbsent FlexKind = iota
	// FlexStructured: a native JSON array or object
	FlexStructured
	// FlexEncoded: a string whose content parses as JSON
	FlexEncoded
	// FlexRaw: a string that is not JSON
	FlexRaw
)

// FlexValue resolves the "array or JSON-string or plain string" ambiguity of
// multipart and JSON clients exactly once. Downstream code switches on Kind
// and never re-inspects the raw bytes.
type FlexValue struct {
	Kind FlexKind
	JSON json.RawMessage
	Raw  string
}

func (f FlexValue) Present() bool {
	return f.Kind != FlexAbsent
}

// FlexFromForm classifies a multipart form field. present is false when the
// field was not part of the request at all.
func FlexFromForm(value string, present bool) FlexValue {
	if !present {
		return FlexValue{Kind: FlexAbsent}
	}
	trimmed := strings.TrimSpace(value)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') && json.Valid([]byte(trimmed)) {
		return FlexValue{Kind: FlexEncoded, JSON: json.RawMessage(trimmed)}
	}
	return FlexValue{Kind: FlexRaw, Raw: value}
}

func (f *FlexValue) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		f.Kind = FlexAbsent
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = FlexFromForm(s, true)
		return nil
	}
	f.Kind = FlexStructured
	f.JSON = append(json.RawMessage(nil), trimmed...)
	return nil
}
