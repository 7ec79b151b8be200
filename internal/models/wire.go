package models

// GenerateRequest is the JSON body of a POST to /api/genai.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateResponse is the success body. Text is a pointer so that an
// upstream response with no text serializes as {"text":null}.
type GenerateResponse struct {
	Text *string `json:"text"`
}

// ErrorResponse is the failure body for any non-2xx proxy status.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// HealthResponse is returned for GET /api/genai.
type HealthResponse struct {
	Status string `json:"status"`
}

// PlaceholderFilePrompt stands in for file content on multipart requests
// that carry no prompt field. File bytes are never forwarded upstream.
const PlaceholderFilePrompt = "File uploaded (text extraction not yet implemented)"
