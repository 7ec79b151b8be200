package genai

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	apierrors "github.com/hardy/onion/internal/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient("test-key", WithEndpoint(srv.URL))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

func TestGenerate_Success(t *testing.T) {
	var gotKey string
	var gotBody []byte

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-goog-api-key")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Hi "},{"text":"there"}]}}]}`))
	})

	text, err := client.Generate("Hello")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if text != "Hi there" {
		t.Errorf("text = %q, want %q", text, "Hi there")
	}
	if gotKey != "test-key" {
		t.Errorf("api key header = %q, want test-key", gotKey)
	}

	var req struct {
		Contents []struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
	}
	if err := json.Unmarshal(gotBody, &req); err != nil {
		t.Fatalf("request body is not JSON: %v", err)
	}
	if len(req.Contents) != 1 || len(req.Contents[0].Parts) != 1 ||
		req.Contents[0].Parts[0].Text != "Hello" {
		t.Errorf("unexpected request body: %s", gotBody)
	}
}

func TestGenerate_NoCandidates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	})

	text, err := client.Generate("Hello")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if text != "" {
		t.Errorf("text = %q, want empty", text)
	}
}

func TestGenerate_UpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	})

	_, err := client.Generate("Hello")
	if !apierrors.IsUpstream(err) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if got := apierrors.HTTPStatus(err); got != http.StatusTooManyRequests {
		t.Errorf("HTTPStatus = %d, want 429", got)
	}
	if got := apierrors.Detail(err); got != "rate limited" {
		t.Errorf("Detail = %q, want rate limited", got)
	}
}

func TestGenerate_UpstreamErrorRawBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	})

	_, err := client.Generate("Hello")
	if !apierrors.IsUpstream(err) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if got := apierrors.Detail(err); got != "boom" {
		t.Errorf("Detail = %q, want boom", got)
	}
}

func TestGenerate_EmptyPrompt(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not reach the server for an empty prompt")
	})

	if _, err := client.Generate("   "); !apierrors.IsInvalidInput(err) {
		t.Errorf("expected invalid input error, got %v", err)
	}
}

func TestExtractText_MissingParts(t *testing.T) {
	if got := extractText([]byte(`{}`)); got != "" {
		t.Errorf("extractText = %q, want empty", got)
	}
}
