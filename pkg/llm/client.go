// Package llm holds the Anthropic Messages API plumbing shared by the chat
// proxy and the CV parser.
package llm

import (
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Options configures an Anthropic client. Empty fields fall back to the
// SDK's environment defaults.
type Options struct {
	APIKey     string
	BaseURL    string
	MaxRetries int
}

// NewClient creates an Anthropic client
func NewClient(opts Options) anthropic.Client {
	var reqOpts []option.RequestOption
	if key := strings.TrimSpace(opts.APIKey); key != "" {
		reqOpts = append(reqOpts, option.WithAPIKey(key))
	}
	if baseURL := strings.TrimSpace(opts.BaseURL); baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}
	if opts.MaxRetries > 0 {
		reqOpts = append(reqOpts, option.WithMaxRetries(opts.MaxRetries))
	}
	return anthropic.NewClient(reqOpts...)
}
