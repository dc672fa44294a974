package gbp

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ReplyPilot/review_pilot_app/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testFamilies builds two endpoint families rooted at the test server, under
// /new and /legacy prefixes, so fallback behaviour is observable.
func testFamilies(base string) []endpointFamily {
	family := func(name, prefix string) endpointFamily {
		root := base + prefix
		return endpointFamily{
			name:        name,
			accountsURL: func() string { return root + "/accounts" },
			locationsURL: func(account string) string {
				return root + "/" + account + "/locations"
			},
			reviewsURL: func(account, location string) string {
				return root + "/" + account + "/" + location + "/reviews"
			},
			replyURL: func(account, location, reviewID string) string {
				return root + "/" + account + "/" + location + "/reviews/" + reviewID + "/reply"
			},
		}
	}
	return []endpointFamily{family("new", "/new"), family("legacy", "/legacy")}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(
		slog.New(slog.NewTextHandler(testWriter{t}, nil)),
		withEndpointFamilies(testFamilies(server.URL)),
		WithRetryBackoff(time.Millisecond),
	)
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func TestListReviews_MapsStarRatings(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"reviews": [
				{"reviewId": "r1", "reviewer": {"displayName": "A"}, "starRating": "FIVE", "comment": "Great!", "createTime": "2026-08-01T10:00:00Z"},
				{"reviewId": "r2", "reviewer": {"displayName": "B"}, "starRating": "ONE", "comment": "Bad", "createTime": "2026-08-02T10:00:00Z"},
				{"reviewId": "r3", "reviewer": {"isAnonymous": true}, "starRating": "SIX_STARS", "comment": "??", "createTime": "2026-08-03T10:00:00Z"}
			]
		}`))
	})

	reviews, err := client.ListReviews(context.Background(), "tok", "accounts/1", "locations/9")
	require.NoError(t, err)
	require.Len(t, reviews, 3)

	assert.Equal(t, "r1", reviews[0].ExternalID)
	assert.Equal(t, 5, reviews[0].Rating)
	assert.Equal(t, "Great!", reviews[0].Comment)
	assert.Equal(t, 1, reviews[1].Rating)
	// Unrecognised star values map to the defined default, not an error.
	assert.Equal(t, 0, reviews[2].Rating)
	assert.Equal(t, "Anonymous", reviews[2].Author)
}

func TestListReviews_DerivesExternalIDWhenMissing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"reviews": [{"reviewer": {"displayName": "A"}, "starRating": "FOUR", "createTime": "2026-08-01T10:00:00Z"}]}`))
	})

	reviews, err := client.ListReviews(context.Background(), "tok", "accounts/1", "locations/9")
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	created, _ := time.Parse(time.RFC3339, "2026-08-01T10:00:00Z")
	assert.Equal(t, "9_"+strconv.FormatInt(created.Unix(), 10), reviews[0].ExternalID)
}

func TestListReviews_FollowsPageTokens(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			assert.Empty(t, r.URL.Query().Get("pageToken"))
			_, _ = w.Write([]byte(`{"reviews": [{"reviewId": "r1", "starRating": "FIVE", "createTime": "2026-08-01T10:00:00Z"}], "nextPageToken": "p2"}`))
			return
		}
		assert.Equal(t, "p2", r.URL.Query().Get("pageToken"))
		_, _ = w.Write([]byte(`{"reviews": [{"reviewId": "r2", "starRating": "FOUR", "createTime": "2026-08-02T10:00:00Z"}]}`))
	})

	reviews, err := client.ListReviews(context.Background(), "tok", "accounts/1", "locations/9")
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "r1", reviews[0].ExternalID)
	assert.Equal(t, "r2", reviews[1].ExternalID)
	assert.Equal(t, int32(2), calls.Load())
}

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		name     string
		status   int
		body     string
		expected apperrors.Kind
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error": {"message": "invalid token"}}`, apperrors.KindAuthExpired},
		{"forbidden", http.StatusForbidden, `{"error": {"message": "API not enabled"}}`, apperrors.KindPermissionDenied},
		{"server error", http.StatusInternalServerError, `boom`, apperrors.KindProviderUnavailable},
		{"teapot", http.StatusTeapot, ``, apperrors.KindProviderUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			_, err := client.ListAccounts(context.Background(), "tok")
			require.Error(t, err)
			assert.Equal(t, tc.expected, apperrors.KindOf(err))
		})
	}
}

func TestListAccounts_NotFoundIsEmptyResult(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	accounts, err := client.ListAccounts(context.Background(), "tok")
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestMalformedBodyIsProviderUnavailable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	})
	_, err := client.ListAccounts(context.Background(), "tok")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindProviderUnavailable, apperrors.KindOf(err))
}

func TestFallback_ExactlyOnceOnPermissionDenied(t *testing.T) {
	var newCalls, legacyCalls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/new/accounts" {
			newCalls.Add(1)
			w.WriteHeader(http.StatusForbidden)
			return
		}
		legacyCalls.Add(1)
		_, _ = w.Write([]byte(`{"accounts": [{"name": "accounts/1", "accountName": "Acme", "role": "OWNER"}]}`))
	})

	accounts, err := client.ListAccounts(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "accounts/1", accounts[0].ResourceName)
	assert.Equal(t, int32(1), newCalls.Load())
	assert.Equal(t, int32(1), legacyCalls.Load())
}

func TestFallback_StopsAfterLegacyDenial(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := client.ListAccounts(context.Background(), "tok")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindPermissionDenied, apperrors.KindOf(err))
	// One try per family, never a loop.
	assert.Equal(t, int32(2), calls.Load())
}

func TestFallback_NotTriggeredByOtherFailures(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.ListAccounts(context.Background(), "tok")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindProviderUnavailable, apperrors.KindOf(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestRateLimited_RetriesOnceThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"accounts": []}`))
	})

	_, err := client.ListAccounts(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRateLimited_SurfacedAfterSecondThrottle(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.ListAccounts(context.Background(), "tok")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindRateLimited, apperrors.KindOf(err))
	assert.Equal(t, int32(2), calls.Load())
}

func TestPostReply(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/new/accounts/1/locations/9/reviews/r1/reply", r.URL.Path)
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"comment": "Thank you!"}`))
		})
		err := client.PostReply(context.Background(), "tok", "accounts/1", "locations/9", "r1", "Thank you!")
		require.NoError(t, err)
	})

	t.Run("not found is a hard error for writes", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		err := client.PostReply(context.Background(), "tok", "accounts/1", "locations/9", "gone", "Thanks")
		require.Error(t, err)
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	})

	t.Run("empty comment rejected before any network call", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("no request expected")
		})
		err := client.PostReply(context.Background(), "tok", "accounts/1", "locations/9", "r1", "")
		require.Error(t, err)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	})
}

func TestRatingFromStar(t *testing.T) {
	assert.Equal(t, 1, RatingFromStar("ONE"))
	assert.Equal(t, 5, RatingFromStar("FIVE"))
	assert.Equal(t, 0, RatingFromStar("STAR_RATING_UNSPECIFIED"))
	assert.Equal(t, 0, RatingFromStar(""))
}
