// Package models defines shared constants and the wire types for the
// /api/genai proxy contract.
package models

const (
	// ModelGemini25Flash is the fixed upstream model identifier.
	ModelGemini25Flash = "gemini-2.5-flash"

	// EndpointGenerateFmt is the upstream generateContent endpoint,
	// parameterized by model name.
	EndpointGenerateFmt = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"

	// APIPath is the proxy route served by `onion serve`.
	APIPath = "/api/genai"

	// DefaultListenAddr is where the proxy listens unless overridden.
	DefaultListenAddr = "localhost:4000"

	// DefaultServerURL is where the completion client looks for the proxy.
	DefaultServerURL = "http://localhost:4000"
)

// EnvAPIKey is the environment variable holding the server-side credential.
const EnvAPIKey = "GEMINI_API_KEY"

// EnvPort optionally overrides the proxy listen port.
const EnvPort = "PORT"
