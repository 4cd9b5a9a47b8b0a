package narrate

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func completionServer(t *testing.T, content string) (*httptest.Server, *chatRequest) {
	t.Helper()
	var captured chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func TestClient_Generate(t *testing.T) {
	srv, captured := completionServer(t, "Surface waters are warmest near the equator.")
	client := NewClient(srv.Client(), srv.URL, "sk-test", "test/model", zap.NewNop())

	text, err := client.Generate(context.Background(), Request{
		Query:       "Show me temperature data",
		Type:        ResponseDataAnalysis,
		DataContext: "Result set contains 100 measurements from 10 profiles.",
	})
	require.NoError(t, err)
	assert.Equal(t, "Surface waters are warmest near the equator.", text)

	assert.Equal(t, "test/model", captured.Model)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Contains(t, captured.Messages[0].Content, "FloatChat")
	assert.Equal(t, "user", captured.Messages[1].Role)
	assert.Contains(t, captured.Messages[1].Content, "Show me temperature data")
	assert.Contains(t, captured.Messages[1].Content, "100 measurements")
}

func TestClient_GenerateOmitsEmptyContext(t *testing.T) {
	srv, captured := completionServer(t, "Argo floats profile the upper two kilometers of the ocean.")
	client := NewClient(srv.Client(), srv.URL, "sk-test", "test/model", zap.NewNop())

	_, err := client.Generate(context.Background(), Request{
		Query: "Explain how Argo floats work",
		Type:  ResponseExplanation,
	})
	require.NoError(t, err)
	assert.NotContains(t, captured.Messages[1].Content, "Data Context")
}

func TestClient_NoKeyFailsFast(t *testing.T) {
	client := NewClient(nil, "http://localhost:1/never", "", "test/model", zap.NewNop())

	_, err := client.Generate(context.Background(), Request{Query: "hi", Type: ResponseGreeting})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)
	client := NewClient(srv.Client(), srv.URL, "sk-test", "test/model", zap.NewNop())

	_, err := client.Generate(context.Background(), Request{Query: "hi", Type: ResponseGreeting})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_MalformedPayload(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", "<html>oops</html>"},
		{"no choices", `{"choices":[]}`},
		{"empty content", `{"choices":[{"message":{"role":"assistant","content":""}}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tc.body))
			}))
			t.Cleanup(srv.Close)
			client := NewClient(srv.Client(), srv.URL, "sk-test", "test/model", zap.NewNop())

			_, err := client.Generate(context.Background(), Request{Query: "hi", Type: ResponseGreeting})
			assert.ErrorIs(t, err, ErrUnavailable)
		})
	}
}

func TestClient_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server notices the client disconnect and
		// cancels the request context; otherwise Close blocks forever.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)
	client := NewClient(srv.Client(), srv.URL, "sk-test", "test/model", zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Generate(ctx, Request{Query: "hi", Type: ResponseGreeting})
	assert.ErrorIs(t, err, ErrUnavailable)
}
