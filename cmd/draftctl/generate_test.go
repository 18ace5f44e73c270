package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestReadRequests(t *testing.T) {
	path := writeFile(t, "req.json", `{"ticket":{"id":"T-1","priority":"high"},"personalization":{"customer_name":"Marie"},"response_type":"progress"}`)

	reqs, err := readRequests([]string{path}, "", false)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, "T-1", reqs[0].Ticket.ID)
	assert.Equal(t, "progress", reqs[0].ResponseType)
	assert.False(t, reqs[0].WithQuality)

	reqs, err = readRequests([]string{path}, "solution", true)
	require.NoError(t, err)
	assert.Equal(t, "solution", reqs[0].ResponseType)
	assert.True(t, reqs[0].WithQuality)
}

func TestReadRequestsRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed", body: `{"ticket":`},
		{name: "missing ticket id", body: `{"ticket":{},"response_type":"progress"}`},
		{name: "unknown type", body: `{"ticket":{"id":"T-1"},"response_type":"farewell"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readRequests([]string{writeFile(t, "req.json", tt.body)}, "", false)
			assert.Error(t, err)
		})
	}

	_, err := readRequests([]string{filepath.Join(t.TempDir(), "missing.json")}, "", false)
	assert.Error(t, err)
}
