package http

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponse_IsSuccess(t *testing.T) {
	tests := []struct {
		statusCode int
		expected   bool
	}{
		{200, true},
		{201, true},
		{204, true},
		{299, true},
		{300, false},
		{400, false},
		{404, false},
		{500, false},
	}

	for _, tt := range tests {
		resp := &Response{StatusCode: tt.statusCode}
		assert.Equal(t, tt.expected, resp.IsSuccess(), "StatusCode: %d", tt.statusCode)
	}
}

func TestResponse_IsJSON(t *testing.T) {
	tests := []struct {
		contentType string
		expected    bool
	}{
		{"application/json", true},
		{"application/json; charset=utf-8", true},
		{"application/problem+json", true},
		{"text/html", false},
		{"text/plain", false},
		{"", false},
	}

	for _, tt := range tests {
		resp := &Response{Headers: map[string]string{"Content-Type": tt.contentType}}
		assert.Equal(t, tt.expected, resp.IsJSON(), "Content-Type: %s", tt.contentType)
	}
}

func TestResponse_Data(t *testing.T) {
	jsonResp := &Response{
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    []byte(`{"fact":"purrs","count":2}`),
	}
	assert.Equal(t, map[string]any{"fact": "purrs", "count": float64(2)}, jsonResp.Data())

	textResp := &Response{
		Headers: map[string]string{"Content-Type": "text/plain"},
		Body:    []byte(`{"fact":"purrs"}`),
	}
	assert.Equal(t, `{"fact":"purrs"}`, textResp.Data())

	assert.Nil(t, (&Response{}).Data())
}

func TestClassify(t *testing.T) {
	jsonHeaders := map[string]string{"Content-Type": "application/json"}

	assert.NoError(t, Classify(&Response{StatusCode: 200, Headers: jsonHeaders, Body: []byte(`{"id":"1"}`)}))
	assert.NoError(t, Classify(&Response{StatusCode: 204}))
	assert.NoError(t, Classify(&Response{StatusCode: 304}))

	err := Classify(&Response{StatusCode: 404, Status: "404 Not Found", Body: []byte(`{"message":"Fact not found"}`)})
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, 404, statusErr.StatusCode)
	assert.Contains(t, err.Error(), "Fact not found")

	err = Classify(&Response{StatusCode: 200, Headers: jsonHeaders, Body: []byte(`not json`)})
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "not json", parseErr.Body)
}
