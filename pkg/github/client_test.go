package github

import (
	"bytes"
	"io"
	"net/http"
	"testing"

	"github.com/google/go-github/v57/github"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestAPIErrorFromResponse(t *testing.T) {
	resp := &github.Response{Response: &http.Response{
		StatusCode: http.StatusConflict,
		Body:       io.NopCloser(bytes.NewBufferString(`{"message":"conflict"}`)),
	}}

	err := apiError(resp, errors.New("ignored"))
	assert.Equal(t, `GitHub API error (409): {"message":"conflict"}`, err.Error())
	assert.True(t, IsConflict(err))
	assert.True(t, IsConflict(errors.Wrap(err, "wrapped")))
}

func TestAPIErrorFallsBackToMessage(t *testing.T) {
	httpResp := &http.Response{StatusCode: http.StatusForbidden, Body: io.NopCloser(bytes.NewReader(nil))}
	err := apiError(&github.Response{Response: httpResp}, &github.ErrorResponse{Response: httpResp, Message: "Resource not accessible"})
	assert.Equal(t, "GitHub API error (403): Resource not accessible", err.Error())
}

func TestAPIErrorWithoutResponse(t *testing.T) {
	err := apiError(nil, errors.New("dial tcp: connection refused"))
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestParseBaseURL(t *testing.T) {
	u, err := parseBaseURL("https://ghe.example.com/api/v3")
	assert.NoError(t, err)
	assert.Equal(t, "https://ghe.example.com/api/v3/", u.String())
}
