package mpesa

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Client talks to the Daraja STK-push API. A push only prompts the customer
// to authorize payment; the asynchronous callback settles the result.
type Client struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	ShortCode      string
	Passkey        string
	CallbackURL    string
	HTTPClient     *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

type authResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

type STKPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int    `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type STKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

// CallbackPayload is the gateway's asynchronous settlement notification.
// ResultCode 0 means the customer authorized the payment.
type CallbackPayload struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

func NewClient(baseURL, consumerKey, consumerSecret, shortCode, passkey, callbackURL string) *Client {
	return &Client{
		BaseURL:        baseURL,
		ConsumerKey:    consumerKey,
		ConsumerSecret: consumerSecret,
		ShortCode:      shortCode,
		Passkey:        passkey,
		CallbackURL:    callbackURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Normalize phone numbers to the 254XXXXXXXXX format the gateway expects.
func (c *Client) convertPhoneNumber(phone string) string {
	phone = strings.TrimSpace(phone)
	phone = strings.TrimPrefix(phone, "+")
	if strings.HasPrefix(phone, "07") || strings.HasPrefix(phone, "01") {
		return "254" + phone[1:]
	}
	return phone
}

// password builds the Lipa Na M-Pesa password for the given timestamp.
func (c *Client) password(timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(c.ShortCode + c.Passkey + timestamp))
}

func (c *Client) authToken() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	url := fmt.Sprintf("%s/oauth/v1/generate?grant_type=client_credentials", c.BaseURL)
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create auth request: %w", err)
	}
	req.SetBasicAuth(c.ConsumerKey, c.ConsumerSecret)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to request access token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read auth response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("auth request failed with status %d: %s", resp.StatusCode, body)
	}

	var auth authResponse
	if err := json.Unmarshal(body, &auth); err != nil {
		return "", fmt.Errorf("failed to parse auth response: %w", err)
	}

	expiresIn, err := strconv.Atoi(auth.ExpiresIn)
	if err != nil || expiresIn <= 0 {
		expiresIn = 3599
	}

	c.accessToken = auth.AccessToken
	// Renew a little early so in-flight requests never carry a stale token.
	c.tokenExpiry = time.Now().Add(time.Duration(expiresIn-30) * time.Second)
	return c.accessToken, nil
}

// STKPush sends a payment prompt for the given amount to the customer's
// phone. The returned acknowledgement is not a completed-payment guarantee.
func (c *Client) STKPush(phone string, amount float64, accountReference, description string) (*STKPushResponse, error) {
	token, err := c.authToken()
	if err != nil {
		return nil, err
	}

	timestamp := time.Now().Format("20060102150405")
	requestData := STKPushRequest{
		BusinessShortCode: c.ShortCode,
		Password:          c.password(timestamp),
		Timestamp:         timestamp,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            int(math.Round(amount)),
		PartyA:            c.convertPhoneNumber(phone),
		PartyB:            c.ShortCode,
		PhoneNumber:       c.convertPhoneNumber(phone),
		CallBackURL:       c.CallbackURL,
		AccountReference:  accountReference,
		TransactionDesc:   description,
	}

	jsonData, err := json.Marshal(requestData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request data: %w", err)
	}

	url := fmt.Sprintf("%s/mpesa/stkpush/v1/processrequest", c.BaseURL)
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stk push failed with status %d: %s", resp.StatusCode, body)
	}

	var response STKPushResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &response, nil
}
