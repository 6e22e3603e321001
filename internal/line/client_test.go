package line

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microrent/rentflow/internal/common"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New("test-channel-token")
	require.NoError(t, err)
	client.endpoint = server.URL
	return client
}

func TestNewRequiresToken(t *testing.T) {
	_, err := New("")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMissingConfig)

	_, err = New("   ")
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestSend(t *testing.T) {
	var gotAuth string
	var gotBody pushRequest

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	})

	err := client.Send(context.Background(), "U-dest-1", "Rent is due tomorrow")
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-channel-token", gotAuth)
	assert.Equal(t, "U-dest-1", gotBody.To)
	require.Len(t, gotBody.Messages, 1)
	assert.Equal(t, "text", gotBody.Messages[0].Type)
	assert.Equal(t, "Rent is due tomorrow", gotBody.Messages[0].Text)
}

func TestSendEmptyDestination(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	err := client.Send(context.Background(), "", "text")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotifySend)
	assert.False(t, common.IsRetryable(err))
}

func TestSendAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"The user hasn't added the LINE Official Account as a friend"}`))
	})

	err := client.Send(context.Background(), "U-dest-1", "text")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotifySend)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "hasn't added")

	// A rejected user ID fails identically on every attempt.
	assert.False(t, common.IsRetryable(err))
}

func TestSendServerErrorIsRetryable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	err := client.Send(context.Background(), "U-dest-1", "text")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotifySend)
	assert.True(t, common.IsRetryable(err))
}

func TestSendRateLimited(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	err := client.Send(context.Background(), "U-dest-1", "text")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrRateLimit)
	assert.True(t, common.IsRetryable(err))
}

func TestSendContextCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.Send(ctx, "U-dest-1", "text")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotifySend)
}
