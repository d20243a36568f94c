package model

// LineMatch is the per-line outcome of an analysis run. LineNumber is the
// 1-based position in the raw input; blank lines keep their number but are
// dropped from the report.
type LineMatch struct {
	LineNumber  int    `json:"line_number"`
	Text        string `json:"text"`
	MatchedName string `json:"matched_name,omitempty"`
}

// ModelAggregate tallies how many lines mentioned one model name.
type ModelAggregate struct {
	ModelName   string `json:"model_name"`
	Count       int    `json:"count"`
	LineNumbers []int  `json:"line_numbers"`
}

// AnalysisResult is the ephemeral output of a range analysis. It is never
// persisted; callers feed the aggregates into the range resolver.
type AnalysisResult struct {
	Lines          []LineMatch      `json:"lines"`
	Aggregates     []ModelAggregate `json:"aggregates"`
	UnmatchedLines []LineMatch      `json:"unmatched_lines"`
	UnmatchedCount int              `json:"unmatched_count"`
}
