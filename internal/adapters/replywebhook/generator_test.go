package replywebhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ReplyPilot/review_pilot_app/internal/apperrors"
	"github.com/ReplyPilot/review_pilot_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Success(t *testing.T) {
	var captured generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"success": true, "reply": "Thank you!"}`))
	}))
	defer server.Close()

	g := NewGenerator(server.URL)
	review := domain.Review{Comment: "Great!", Rating: 5, Author: "A"}
	style := domain.StyleSettings{Tone: "friendly", Length: "short", Signature: "- The Team", BusinessName: "Acme Cafe"}

	reply, err := g.Generate(context.Background(), review, style)
	require.NoError(t, err)
	assert.Equal(t, "Thank you!", reply)

	// Style settings pass through verbatim.
	assert.Equal(t, "Great!", captured.ReviewText)
	assert.Equal(t, 5, captured.Rating)
	assert.Equal(t, "friendly", captured.Tone)
	assert.Equal(t, "short", captured.Length)
	assert.Equal(t, "- The Team", captured.Signature)
	assert.Equal(t, "Acme Cafe", captured.BusinessName)
}

func TestGenerate_Failures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"service error status", http.StatusInternalServerError, ``},
		{"success false", http.StatusOK, `{"success": false, "error": "model overloaded"}`},
		{"empty draft", http.StatusOK, `{"success": true, "reply": ""}`},
		{"malformed body", http.StatusOK, `not json`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			g := NewGenerator(server.URL)
			_, err := g.Generate(context.Background(), domain.Review{Comment: "x"}, domain.StyleSettings{})
			require.Error(t, err)
			assert.Equal(t, apperrors.KindGenerationFailed, apperrors.KindOf(err))
		})
	}
}

func TestGenerate_MissingWebhookURL(t *testing.T) {
	g := NewGenerator("")
	_, err := g.Generate(context.Background(), domain.Review{}, domain.StyleSettings{})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindGenerationFailed, apperrors.KindOf(err))
}
