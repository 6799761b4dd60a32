package challenge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func siteverifyServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(handler))
	t.Cleanup(srv.Close)
	return srv
}

func TestVerifier_Success(t *testing.T) {
	var gotSecret, gotResponse, gotRemoteIP string
	srv := siteverifyServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotSecret = r.PostFormValue("secret")
		gotResponse = r.PostFormValue("response")
		gotRemoteIP = r.PostFormValue("remoteip")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"challenge_ts":"2024-03-01T12:34:56Z","hostname":"example.com","action":"register"}`))
	})

	v := NewVerifier("secret-key", srv.URL)
	out, err := v.Verify(context.Background(), "the-token", "203.0.113.7")
	require.NoError(t, err)

	assert.Equal(t, "secret-key", gotSecret)
	assert.Equal(t, "the-token", gotResponse)
	assert.Equal(t, "203.0.113.7", gotRemoteIP)

	assert.True(t, out.Success)
	assert.NoError(t, out.Err())
	require.NotNil(t, out.ChallengeTS)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 34, 56, 0, time.UTC), out.ChallengeTS.UTC())
	assert.Equal(t, "example.com", out.Hostname)
	assert.Empty(t, out.FailReason())
}

func TestVerifier_EmptyTokenShortCircuits(t *testing.T) {
	hit := false
	srv := siteverifyServer(t, func(w http.ResponseWriter, r *http.Request) {
		hit = true
	})

	v := NewVerifier("secret-key", srv.URL)
	out, err := v.Verify(context.Background(), "", "")
	require.NoError(t, err)

	assert.False(t, hit, "empty token must not reach siteverify")
	assert.False(t, out.Success)
	assert.ErrorIs(t, out.Err(), ErrMissingToken)
	assert.Equal(t, ErrCodeNoToken, out.FailReason())
}

func TestVerifier_ErrorCodeMapping(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
		reason  string
	}{
		{
			"missing input",
			`{"success":false,"error-codes":["missing-input-response"]}`,
			ErrMissingToken,
			ErrCodeMissingInput,
		},
		{
			"timeout or duplicate",
			`{"success":false,"error-codes":["timeout-or-duplicate"]}`,
			ErrDuplicateToken,
			ErrCodeTimeoutOrDuplicate,
		},
		{
			"invalid input",
			`{"success":false,"error-codes":["invalid-input-response"]}`,
			ErrInvalidToken,
			ErrCodeInvalidInput,
		},
		{
			"unknown code falls back to invalid",
			`{"success":false,"error-codes":["internal-error"]}`,
			ErrInvalidToken,
			"internal-error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := siteverifyServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			})

			v := NewVerifier("secret-key", srv.URL)
			out, err := v.Verify(context.Background(), "some-token", "")
			require.NoError(t, err)

			assert.False(t, out.Success)
			assert.ErrorIs(t, out.Err(), tt.wantErr)
			assert.Equal(t, tt.reason, out.FailReason())
		})
	}
}

func TestVerifier_SuccessWithoutTimestampIsError(t *testing.T) {
	srv := siteverifyServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true}`))
	})

	v := NewVerifier("secret-key", srv.URL)
	_, err := v.Verify(context.Background(), "some-token", "")
	assert.Error(t, err)
}

func TestVerifier_BadTimestampOnSuccessIsError(t *testing.T) {
	srv := siteverifyServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"challenge_ts":"not-a-time"}`))
	})

	v := NewVerifier("secret-key", srv.URL)
	_, err := v.Verify(context.Background(), "some-token", "")
	assert.Error(t, err)
}

func TestVerifier_Non200IsError(t *testing.T) {
	srv := siteverifyServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	v := NewVerifier("secret-key", srv.URL)
	_, err := v.Verify(context.Background(), "some-token", "")
	assert.Error(t, err)
}
