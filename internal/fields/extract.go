// Package fields turns the loosely structured analysis payload into a fixed
// set of declared fields, marking absent ones instead of failing.
package fields

import (
	"errors"

	"cv-analyzer-backend/internal/contentunderstanding"
)

// Declared is the field set the demo analyzer is configured to extract.
var Declared = []string{"education", "language", "work_skills"}

// ErrNoContents means the succeeded payload carried no content blocks at
// all, which invalidates the whole result.
var ErrNoContents = errors.New("no contents found in analysis result")

// Field is one extracted field. Missing marks a field the payload lacked;
// Confidence is passed through from the wire unmodified and is nil when the
// service reported none, so a 0.0 score is not mistaken for absence.
type Field struct {
	Name       string   `json:"name"`
	Value      string   `json:"value"`
	Confidence *float64 `json:"confidence"`
	Missing    bool     `json:"missing"`
}

// Extract pulls the named fields out of a successful analysis result. A
// field absent from the payload yields a Missing marker rather than an
// error; only an empty payload fails the extraction as a whole.
func Extract(result *contentunderstanding.Result, names ...string) ([]Field, error) {
	if result == nil || len(result.Contents) == 0 {
		return nil, ErrNoContents
	}

	payload := result.Contents[0].Fields
	out := make([]Field, 0, len(names))
	for _, name := range names {
		raw, ok := payload[name]
		if !ok {
			out = append(out, Field{Name: name, Missing: true})
			continue
		}
		out = append(out, Field{
			Name:       name,
			Value:      raw.ValueString,
			Confidence: raw.Confidence,
		})
	}
	return out, nil
}
