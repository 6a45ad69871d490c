package apimodels

type AnalysisResponse struct {
	// Raw model output
	Text string `json:"text"`

	// Chart-type labels, never empty
	Recommendations []string `json:"recommendations"`

	// Dataset columns to plot, never empty for a non-empty dataset
	SuggestedColumns []string `json:"suggestedColumns"`

	// Metadata about the analysis
	Metadata AnalysisMetadata `json:"metadata"`
}

type AnalysisMetadata struct {
	RequestID string `json:"requestId"`

	// Time taken for analysis
	Duration string `json:"duration"`

	// Model used for analysis
	Model string `json:"model"`

	// Tokens used in analysis, when the provider reports them
	TokensUsed int64 `json:"tokensUsed"`

	// Number of records sent to the model
	SampleSize int `json:"sampleSize"`

	// Strategy used to interpret the model output
	Source string `json:"source"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
