// Package genai calls the upstream Gemini generateContent API with the
// server-held credential.
package genai

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/tidwall/gjson"

	apierrors "github.com/hardy/onion/internal/errors"
	"github.com/hardy/onion/internal/models"
)

// GJSON paths into the generateContent response body.
const (
	pathParts     = "candidates.0.content.parts"
	pathPartText  = "text"
	pathErrorMsg  = "error.message"
	maxErrorBytes = 2048
)

// Client issues generateContent requests. One request at a time per caller;
// no retries.
type Client struct {
	httpClient tls_client.HttpClient
	apiKey     string
	model      string
	baseURL    string
}

// Option configures the client
type Option func(*Client)

// WithModel overrides the default model identifier
func WithModel(model string) Option {
	return func(c *Client) {
		c.model = model
	}
}

// WithEndpoint overrides the upstream endpoint (used in tests)
func WithEndpoint(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// NewClient creates an upstream client holding the credential.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	options := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(300),
		tls_client.WithClientProfile(profiles.Chrome_120),
		tls_client.WithNotFollowRedirects(),
	}

	httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	client := &Client{
		httpClient: httpClient,
		apiKey:     apiKey,
		model:      models.ModelGemini25Flash,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.baseURL == "" {
		client.baseURL = fmt.Sprintf(models.EndpointGenerateFmt, client.model)
	}

	return client, nil
}

// Generate sends prompt upstream and returns the generated text. An empty
// string with a nil error means the provider returned no text.
func (c *Client) Generate(prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", apierrors.NewInputError("prompt must be a non-empty string")
	}

	payload, err := json.Marshal(map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to build payload: %w", err)
	}

	req, err := fhttp.NewRequest(fhttp.MethodPost, c.baseURL, strings.NewReader(string(payload)))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	// The credential travels in a header, never in the URL, so it cannot
	// leak through request logging.
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apierrors.NewTransportError("upstream request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", apierrors.NewTransportError("failed to read upstream response", err)
	}

	if resp.StatusCode != fhttp.StatusOK {
		return "", apierrors.NewUpstreamError(resp.StatusCode, "AI request failed", upstreamDetail(body))
	}

	return extractText(body), nil
}

// extractText concatenates the text parts of the first candidate.
func extractText(body []byte) string {
	parts := gjson.GetBytes(body, pathParts)
	if !parts.Exists() {
		return ""
	}

	var sb strings.Builder
	parts.ForEach(func(_, part gjson.Result) bool {
		sb.WriteString(part.Get(pathPartText).String())
		return true
	})
	return sb.String()
}

// upstreamDetail pulls a human-readable message out of an upstream error
// body, falling back to a truncated raw body.
func upstreamDetail(body []byte) string {
	if msg := gjson.GetBytes(body, pathErrorMsg); msg.Exists() {
		return msg.String()
	}
	detail := strings.TrimSpace(string(body))
	if len(detail) > maxErrorBytes {
		detail = detail[:maxErrorBytes]
	}
	return detail
}
