package analyses

// AnalyzeRequest is the inbound trigger: one document URL per submission.
type AnalyzeRequest struct {
	DocumentURL string `json:"documentUrl" binding:"required,url"`
}

// FieldResponse is the outward representation of one extracted field.
// Missing marks a field the payload lacked; its confidence stays null so a
// reported score of 0.0 is never confused with absence.
type FieldResponse struct {
	Value      string   `json:"value"`
	Confidence *float64 `json:"confidence"`
	Missing    bool     `json:"missing"`
}

// AnalyzeResponse carries the per-field extraction outcome.
type AnalyzeResponse struct {
	AnalysisID  string                   `json:"analysisId"`
	DocumentURL string                   `json:"documentUrl"`
	ElapsedMs   int64                    `json:"elapsedMs"`
	Fields      map[string]FieldResponse `json:"fields"`
}

func toAnalyzeResponse(analysis Analysis) AnalyzeResponse {
	out := AnalyzeResponse{
		AnalysisID:  analysis.ID,
		DocumentURL: analysis.DocumentURL,
		ElapsedMs:   analysis.Elapsed.Milliseconds(),
		Fields:      make(map[string]FieldResponse, len(analysis.Fields)),
	}
	for _, f := range analysis.Fields {
		out.Fields[f.Name] = FieldResponse{
			Value:      f.Value,
			Confidence: f.Confidence,
			Missing:    f.Missing,
		}
	}
	return out
}
