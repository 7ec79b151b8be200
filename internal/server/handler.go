package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hardy/onion/internal/models"
)

// Generator produces text for a prompt. *genai.Client satisfies it; tests
// substitute stubs.
type Generator interface {
	Generate(prompt string) (string, error)
}

// Handler serves the /api/genai route. It is stateless per request and
// never writes the credential into a response or a log line.
type Handler struct {
	apiKey string
	gen    Generator
	log    zerolog.Logger
}

// NewHandler creates the proxy handler. An empty apiKey is allowed: the
// health probe still works and every completion request reports a
// configuration error.
func NewHandler(apiKey string, gen Generator, log zerolog.Logger) *Handler {
	return &Handler{
		apiKey: apiKey,
		gen:    gen,
		log:    log,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		// Health probe; succeeds regardless of credential presence.
		writeJSON(w, http.StatusOK, models.HealthResponse{Status: "ok"})

	case http.MethodPost:
		h.handleGenerate(w, r)

	default:
		writeJSON(w, http.StatusMethodNotAllowed, models.ErrorResponse{
			Error: "Method not allowed",
		})
	}
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if h.apiKey == "" {
		h.log.Error().Str("path", r.URL.Path).Msg("missing API key in environment")
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Error: "Server configuration error: missing API key",
		})
		return
	}

	prompt, ok := h.extractPrompt(w, r)
	if !ok {
		return
	}

	text, err := h.gen.Generate(prompt)
	if err != nil {
		h.log.Error().Err(err).Msg("generate content failed")
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Error:   "AI request failed",
			Details: err.Error(),
		})
		return
	}

	resp := models.GenerateResponse{}
	if text != "" {
		resp.Text = &text
	}
	writeJSON(w, http.StatusOK, resp)
}

// extractPrompt negotiates the request body: JSON with a prompt field,
// multipart with prompt/file fields, or anything else treated as JSON. On
// failure it writes the 400 response itself and returns ok=false.
func (h *Handler) extractPrompt(w http.ResponseWriter, r *http.Request) (string, bool) {
	contentType := r.Header.Get("Content-Type")

	if strings.Contains(contentType, "multipart/form-data") {
		return h.extractMultipartPrompt(w, r)
	}

	// JSON body, also the fallback for missing or unknown content types.
	var req models.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Prompt) == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error: "Missing or invalid prompt",
		})
		return "", false
	}
	return req.Prompt, true
}

const maxMultipartMemory = 32 << 20

func (h *Handler) extractMultipartPrompt(w http.ResponseWriter, r *http.Request) (string, bool) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error: "Missing or invalid prompt",
		})
		return "", false
	}

	prompt := r.FormValue("prompt")
	if strings.TrimSpace(prompt) != "" {
		return prompt, true
	}

	// The file is opaque here: no text extraction, only its presence
	// matters. A request with a file but no prompt gets a placeholder.
	if _, header, err := r.FormFile("file"); err == nil && header != nil {
		return models.PlaceholderFilePrompt, true
	}

	writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
		Error: "Missing prompt or file content",
	})
	return "", false
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
