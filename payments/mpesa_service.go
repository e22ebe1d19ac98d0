package payments

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

const defaultDarajaBaseURL = "https://sandbox.safaricom.co.ke"

// Config carries every credential and endpoint the gateway needs. It is
// built once at startup and injected; the gateway never reads the
// environment itself.
type Config struct {
	ConsumerKey    string
	ConsumerSecret string
	ShortCode      string
	Passkey        string
	CallbackURL    string
	BaseURL        string
	Timeout        time.Duration
}

// PaymentGateway is the outbound half of the provider boundary.
type PaymentGateway interface {
	RequestPayment(phone string, amount decimal.Decimal, reference string) (*StkPushResponse, error)
}

type StkPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            string `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type StkPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
	ErrorCode           string `json:"errorCode"`
	ErrorMessage        string `json:"errorMessage"`
}

type MpesaGateway struct {
	cfg    Config
	client *http.Client
	tokens tokenCache
}

func NewMpesaGateway(cfg Config) *MpesaGateway {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultDarajaBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &MpesaGateway{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// RequestPayment fires an STK push at the payer's phone. Token or network
// failures come back as ErrGatewayUnavailable, a synchronous provider
// rejection as ErrProviderRejected. Only a ResponseCode of "0" means the
// request was accepted for asynchronous processing.
func (g *MpesaGateway) RequestPayment(phone string, amount decimal.Decimal, reference string) (*StkPushResponse, error) {
	accessToken, err := g.accessToken()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	sanitizedPhone, err := SanitizePhoneNumber(phone)
	if err != nil {
		return nil, err
	}

	timestamp := time.Now().Format("20060102150405")
	password := base64.StdEncoding.EncodeToString(
		[]byte(g.cfg.ShortCode + g.cfg.Passkey + timestamp),
	)

	payload := StkPushRequest{
		BusinessShortCode: g.cfg.ShortCode,
		Password:          password,
		Timestamp:         timestamp,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            amount.String(),
		PartyA:            sanitizedPhone,
		PartyB:            g.cfg.ShortCode,
		PhoneNumber:       sanitizedPhone,
		CallBackURL:       g.cfg.CallbackURL,
		AccountReference:  reference,
		TransactionDesc:   "Payment for goods",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal STK payload: %v", err)
	}

	req, err := http.NewRequest("POST", g.cfg.BaseURL+"/mpesa/stkpush/v1/processrequest", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create STK request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read STK response: %v", ErrGatewayUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("Daraja API error (%d): %s", resp.StatusCode, string(respBody))
		var apiErr StkPushResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.ErrorMessage != "" {
			return nil, fmt.Errorf("%w: %s", ErrProviderRejected, apiErr.ErrorMessage)
		}
		return nil, fmt.Errorf("%w: status %d", ErrProviderRejected, resp.StatusCode)
	}

	var stkResponse StkPushResponse
	if err := json.Unmarshal(respBody, &stkResponse); err != nil {
		return nil, fmt.Errorf("%w: unexpected STK response body", ErrGatewayUnavailable)
	}

	if stkResponse.ResponseCode != "0" {
		log.Printf("STK push rejected for %s: %s", reference, stkResponse.ResponseDescription)
		return nil, fmt.Errorf("%w: %s", ErrProviderRejected, stkResponse.ResponseDescription)
	}

	log.Println("✅ STK push initiated successfully for reference:", reference)
	return &stkResponse, nil
}

// WarmToken pre-fetches the OAuth token so the first initiation does not
// pay the token round trip. Called from main in a goroutine.
func (g *MpesaGateway) WarmToken() {
	if _, err := g.accessToken(); err != nil {
		log.Printf("Warning: failed to warm M-Pesa access token: %v", err)
	}
}
