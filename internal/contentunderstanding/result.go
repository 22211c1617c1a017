package contentunderstanding

// Result is the structured payload returned when an analysis succeeds. The
// exact field set is defined remotely by the analyzer configuration; this
// client treats it as a map of named field payloads.
type Result struct {
	Contents []Content `json:"contents"`
}

// Content is one analyzed content block with its extracted fields.
type Content struct {
	Fields map[string]FieldPayload `json:"fields"`
}

// FieldPayload is the raw wire form of one extracted field. Confidence is a
// pointer so a reported 0.0 stays distinguishable from an absent score.
type FieldPayload struct {
	Type        string   `json:"type,omitempty"`
	ValueString string   `json:"valueString"`
	Confidence  *float64 `json:"confidence,omitempty"`
}
