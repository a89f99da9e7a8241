package zerolog_config

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElasticsearchWriter(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	ew := NewElasticsearchWriter(srv.URL+"/", "claimsdesk-logs")
	n, err := ew.Write([]byte(`{"message":"hi"}`))
	require.NoError(t, err)
	assert.Equal(t, 16, n)
	assert.Equal(t, "/claimsdesk-logs/_doc", gotPath)
	assert.Equal(t, `{"message":"hi"}`, gotBody)
}

func TestElasticsearchWriterRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := NewElasticsearchWriter(srv.URL, "logs").Write([]byte(`{}`))
	assert.EqualError(t, err, "elasticsearch returned 400")
}

func TestStartupWithEnvValidation(t *testing.T) {
	assert.Error(t, StartupWithEnv("", "", "info"))
	assert.Error(t, StartupWithEnv("", "logs", "loud"))
	assert.NoError(t, StartupWithEnv("", "logs", "debug"))
}
