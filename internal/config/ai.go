package config

import (
	"strings"
	"time"
)

// Text generation transports
const (
	TransportREST = "rest"
	TransportSDK  = "sdk"
)

// DefaultAITimeoutMS bounds one narrative generation call
const DefaultAITimeoutMS = 20000

// AIConfig holds the narrative generation settings
type AIConfig struct {
	APIKey    string `json:"-"` // Never serialize
	BaseURL   string `json:"baseUrl"`
	Model     string `json:"model"`
	Transport string `json:"transport"`
	TimeoutMS int    `json:"timeoutMs"`
}

// DefaultAIConfig returns the AI configuration from the environment
func DefaultAIConfig() *AIConfig {
	transport := strings.ToLower(getEnv("GEMINI_TRANSPORT", TransportREST))
	if transport != TransportSDK {
		transport = TransportREST
	}
	timeout := getEnvInt("GEMINI_TIMEOUT_MS", DefaultAITimeoutMS)
	if timeout <= 0 {
		timeout = DefaultAITimeoutMS
	}
	return &AIConfig{
		APIKey:    getEnv("GEMINI_API_KEY", ""),
		BaseURL:   strings.TrimRight(getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/models"), "/"),
		Model:     getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		Transport: transport,
		TimeoutMS: timeout,
	}
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// Timeout returns the per-call bound; non-positive values mean the default
func (c *AIConfig) Timeout() time.Duration {
	ms := c.TimeoutMS
	if ms <= 0 {
		ms = DefaultAITimeoutMS
	}
	return time.Duration(ms) * time.Millisecond
}

// ModelEndpoint returns the generateContent endpoint of the configured model
func (c *AIConfig) ModelEndpoint() string {
	return c.BaseURL + "/" + c.Model + ":generateContent"
}
