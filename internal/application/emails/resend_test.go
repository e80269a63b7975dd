package emails

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func interceptResendAPI(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	srv := httptest.NewServer(handler)
	orig := resendAPI
	resendAPI = srv.URL
	t.Cleanup(func() {
		resendAPI = orig
		srv.Close()
	})
	return srv
}

func TestSendBidNotification(t *testing.T) {
	var mu sync.Mutex
	var got ResendSendRequest
	var auth string
	interceptResendAPI(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	})

	c := &ResendClient{APIKey: "rk", MailFrom: "noreply@carbid.test"}
	err := c.SendBidNotification(context.Background(), "owner@example.com", "Audi A4 (2020)", 18500, "car-1")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "Bearer rk", auth)
	assert.Equal(t, "noreply@carbid.test", got.From)
	assert.Equal(t, []string{"owner@example.com"}, got.To)
	assert.Equal(t, "New bid on Audi A4 (2020)", got.Subject)
	assert.Contains(t, got.HTML, "$18500.00")
}

func TestSend_NoAPIKeyIsNoOp(t *testing.T) {
	called := false
	interceptResendAPI(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	c := &ResendClient{}
	require.NoError(t, c.SendOutbidNotification(context.Background(), "a@b.c", "Car", 1, "id"))
	assert.False(t, called)
}

func TestSend_ErrorStatus(t *testing.T) {
	interceptResendAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"invalid from"}`))
	})

	c := &ResendClient{APIKey: "rk"}
	err := c.SendAuctionResult(context.Background(), "a@b.c", "Car", "completed", 100, "id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestConcurrentSendsLeaveClientUntouched(t *testing.T) {
	interceptResendAPI(t, func(w http.ResponseWriter, r *http.Request) {})

	c := &ResendClient{APIKey: "rk"}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			to := fmt.Sprintf("bidder%d@example.com", n)
			assert.NoError(t, c.SendOutbidNotification(context.Background(), to, "Car", float64(100+n), "id"))
		}(i)
	}
	wg.Wait()

	// The zero-value client must stay untouched: sends share it across
	// goroutines and a lazy field write would race.
	assert.Nil(t, c.Client)
}
