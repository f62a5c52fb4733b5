package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLookup(url string) *geminiLookup {
	return &geminiLookup{
		apiKey:   "test-key",
		endpoint: url,
		client:   &http.Client{Timeout: time.Second},
	}
}

func TestGetMedicinesParsesCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates": [{"content": {"parts": [{"text": "[\"Paracetamol\", \"Ibuprofen\"]"}]}}]
		}`))
	}))
	defer srv.Close()

	names := newTestLookup(srv.URL).GetMedicines(context.Background(), "fever and headache")
	require.Equal(t, []string{"Paracetamol", "Ibuprofen"}, names)
}

func TestGetMedicinesToleratesFailures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"garbage body": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("not json"))
		},
		"non-array text": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "Sure! Here are..."}]}}]}`))
		},
		"no candidates": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"candidates": []}`))
		},
	}

	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(handler)
			defer srv.Close()

			names := newTestLookup(srv.URL).GetMedicines(context.Background(), "fever")
			assert.Empty(t, names)
		})
	}
}

func TestGetMedicinesUnreachableBackend(t *testing.T) {
	lookup := newTestLookup("http://127.0.0.1:1")
	assert.Empty(t, lookup.GetMedicines(context.Background(), "fever"))
}
