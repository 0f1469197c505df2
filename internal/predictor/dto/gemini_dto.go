package dto

// GeminiAPIRequest is the request payload for the Gemini generateContent API.
type GeminiAPIRequest struct {
	Contents []Content `json:"contents"`
}

// Content represents the content of a request or response.
type Content struct {
	Parts []Part `json:"parts"`
}

// Part is a part of the content; either text or inline image data.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inline_data,omitempty"`
}

// InlineData carries base64-encoded media bytes.
type InlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// GeminiAPIResponse is the response from the Gemini API.
type GeminiAPIResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate is a candidate response from the Gemini API.
type Candidate struct {
	Content Content `json:"content"`
}

// TimeframeTrends are the per-timeframe trend labels the vision model reads
// off the chart.
type TimeframeTrends struct {
	TF5Min  string `json:"tf_5min"`
	TF15Min string `json:"tf_15min"`
	TF60Min string `json:"tf_60min"`
}

// ChartDescriptionResult is the expected JSON shape of a vision description.
// The model frequently returns free text instead; parsing falls back to
// per-field keyword extraction and finally to neutral defaults.
type ChartDescriptionResult struct {
	Direction       string          `json:"direction"`
	Sentiment       string          `json:"sentiment"`
	Momentum        string          `json:"momentum"`
	Volatility      string          `json:"volatility"`
	VolumeProfile   string          `json:"volume_profile"`
	SessionType     string          `json:"session_type"`
	ConfidenceLevel int             `json:"confidence_level"` // 0-100 at the AI boundary
	CurrentPrice    float64         `json:"current_price"`
	Extended        bool            `json:"extended"`
	KeyLevels       []KeyLevel      `json:"key_levels"`
	Timeframes      TimeframeTrends `json:"timeframes"`
	Reasoning       string          `json:"reasoning"`
}

// AIVoteResult is the structured response of the external-model ensemble vote.
type AIVoteResult struct {
	Direction       string `json:"direction"`
	ConfidenceLevel int    `json:"confidence_level"` // 0-100 at the AI boundary
	Reasoning       string `json:"reasoning"`
}
