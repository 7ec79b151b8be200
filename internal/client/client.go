// Package client implements the completion client that talks to the proxy
// endpoint. It never sees the upstream credential.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"

	apierrors "github.com/hardy/onion/internal/errors"
	"github.com/hardy/onion/internal/models"
)

// MaxFileSize bounds attachments sent to the proxy.
const MaxFileSize = 20 * 1024 * 1024

// fallbackErrorMessage is used when the proxy's error body is unparseable.
const fallbackErrorMessage = "GenAI proxy error"

// Client issues completion requests against the proxy. One call at a time;
// requests rely on the transport's own timeout, with no retries.
type Client struct {
	httpClient tls_client.HttpClient
	baseURL    string
}

// New creates a completion client for the proxy at baseURL.
func New(baseURL string) (*Client, error) {
	if baseURL == "" {
		baseURL = models.DefaultServerURL
	}

	options := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(300),
		tls_client.WithClientProfile(profiles.Chrome_120),
		tls_client.WithNotFollowRedirects(),
	}

	httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}, nil
}

// Complete sends a text prompt and returns the generated text. An empty
// result with a nil error means the service returned no text.
func (c *Client) Complete(prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", apierrors.NewInputError("prompt must be a non-empty string")
	}

	body, err := json.Marshal(models.GenerateRequest{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	return c.post(bytes.NewReader(body), "application/json")
}

// CompleteFile sends a file with an optional prompt as a multipart request.
// The file is forwarded opaquely; the proxy does not extract text from it.
func (c *Client) CompleteFile(path, prompt string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", apierrors.NewInputError(fmt.Sprintf("cannot read file: %v", err))
	}
	if info.Size() > MaxFileSize {
		return "", apierrors.NewInputError(fmt.Sprintf("file exceeds maximum %d bytes", MaxFileSize))
	}

	file, err := os.Open(path)
	if err != nil {
		return "", apierrors.NewInputError(fmt.Sprintf("cannot read file: %v", err))
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("failed to write file data: %w", err)
	}

	if p := strings.TrimSpace(prompt); p != "" {
		if err := writer.WriteField("prompt", p); err != nil {
			return "", fmt.Errorf("failed to write prompt field: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %w", err)
	}

	return c.post(&body, writer.FormDataContentType())
}

func (c *Client) post(body io.Reader, contentType string) (string, error) {
	req, err := fhttp.NewRequest(fhttp.MethodPost, c.baseURL+models.APIPath, body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apierrors.NewTransportError("proxy unreachable", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", apierrors.NewTransportError("failed to read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Surface the proxy's message verbatim when the body parses.
		var errResp models.ErrorResponse
		message := fallbackErrorMessage
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			message = errResp.Error
		}
		return "", apierrors.NewUpstreamError(resp.StatusCode, message, errResp.Details)
	}

	var genResp models.GenerateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return "", apierrors.NewUpstreamError(resp.StatusCode, fallbackErrorMessage, string(respBody))
	}

	// null text means the service returned no text; not an error.
	if genResp.Text == nil {
		return "", nil
	}
	return *genResp.Text, nil
}
