package mpesa

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConvertPhoneNumber(t *testing.T) {
	c := &Client{}

	tests := []struct {
		in   string
		want string
	}{
		{"0712345678", "254712345678"},
		{"0112345678", "254112345678"},
		{"254712345678", "254712345678"},
		{"+254712345678", "254712345678"},
		{" 0712345678 ", "254712345678"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, c.convertPhoneNumber(tt.in), "input %q", tt.in)
	}
}

func TestSTKPush(t *testing.T) {
	var gotPush STKPushRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/v1/generate":
			user, pass, ok := r.BasicAuth()
			require.True(t, ok)
			require.Equal(t, "key", user)
			require.Equal(t, "secret", pass)
			json.NewEncoder(w).Encode(map[string]string{
				"access_token": "test-token",
				"expires_in":   "3599",
			})
		case "/mpesa/stkpush/v1/processrequest":
			require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPush))
			json.NewEncoder(w).Encode(STKPushResponse{
				MerchantRequestID:   "merchant-1",
				CheckoutRequestID:   "checkout-1",
				ResponseCode:        "0",
				ResponseDescription: "Success. Request accepted for processing",
				CustomerMessage:     "Success. Request accepted for processing",
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", "secret", "174379", "passkey", "https://example.com/callback")

	resp, err := client.STKPush("0712345678", 25.40, "ORD-1", "Order ORD-1")
	require.NoError(t, err)
	require.Equal(t, "checkout-1", resp.CheckoutRequestID)
	require.Equal(t, "0", resp.ResponseCode)

	require.Equal(t, "174379", gotPush.BusinessShortCode)
	require.Equal(t, "254712345678", gotPush.PhoneNumber)
	require.Equal(t, "254712345678", gotPush.PartyA)
	require.Equal(t, "174379", gotPush.PartyB)
	require.Equal(t, 25, gotPush.Amount, "amount is rounded to whole units")
	require.Equal(t, "CustomerPayBillOnline", gotPush.TransactionType)
	require.Equal(t, "https://example.com/callback", gotPush.CallBackURL)
	require.Equal(t, "ORD-1", gotPush.AccountReference)

	wantPassword := base64.StdEncoding.EncodeToString([]byte("174379" + "passkey" + gotPush.Timestamp))
	require.Equal(t, wantPassword, gotPush.Password)
}

func TestSTKPushReusesToken(t *testing.T) {
	var authCalls int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/v1/generate":
			authCalls++
			json.NewEncoder(w).Encode(map[string]string{"access_token": "tok", "expires_in": "3599"})
		default:
			json.NewEncoder(w).Encode(STKPushResponse{ResponseCode: "0"})
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", "secret", "174379", "passkey", "https://example.com/callback")

	_, err := client.STKPush("0712345678", 10, "ORD-1", "first")
	require.NoError(t, err)
	_, err = client.STKPush("0712345678", 20, "ORD-2", "second")
	require.NoError(t, err)

	require.Equal(t, 1, authCalls, "cached token should be reused until expiry")
}

func TestSTKPushGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/v1/generate" {
			json.NewEncoder(w).Encode(map[string]string{"access_token": "tok", "expires_in": "3599"})
			return
		}
		http.Error(w, `{"errorMessage":"Invalid Access Token"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", "secret", "174379", "passkey", "https://example.com/callback")

	_, err := client.STKPush("0712345678", 10, "ORD-1", "desc")
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 401")
}
