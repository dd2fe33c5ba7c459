package gatewayService

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"betcore/config"
	"betcore/models"
	ledgerService "betcore/services/ledger"
)

// Client talks to the PIX payment gateway.
type Client struct {
	http *resty.Client
}

var client *Client

// Init builds the package-level gateway client from configuration.
func Init() *Client {
	client = NewClient(config.AppConfig.GatewayBaseURL, config.AppConfig.GatewayClientID, config.AppConfig.GatewaySecretKey)
	return client
}

// Get returns the package-level client.
func Get() *Client {
	return client
}

// NewClient builds a gateway client against the given base URL.
func NewClient(baseURL, clientID, secretKey string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Client-Id", clientID).
		SetHeader("X-Secret-Key", secretKey)
	return &Client{http: c}
}

// Charge is a PIX charge created at the gateway. QRCode carries the
// copy-and-paste payload the user pays with.
type Charge struct {
	GatewayID string `json:"gatewayId"`
	QRCode    string `json:"qrCode"`
	ExpiresAt string `json:"expiresAt"`
}

type chargeRequest struct {
	Amount            int64  `json:"amount"`
	ExternalReference string `json:"externalReference"`
	PayerName         string `json:"payerName"`
	PayerDocument     string `json:"payerDocument"`
}

type chargeResponse struct {
	ID        string `json:"id"`
	QRCode    string `json:"qrCode"`
	ExpiresAt string `json:"expiresAt"`
	Message   string `json:"message"`
}

// CreateCharge registers a PIX charge for the given amount (centavos) under
// the external reference the caller will later correlate the confirmation by.
func (c *Client) CreateCharge(amount int64, externalReference, payerName, payerDocument string) (*Charge, error) {
	var out chargeResponse
	resp, err := c.http.R().
		SetBody(chargeRequest{
			Amount:            amount,
			ExternalReference: externalReference,
			PayerName:         payerName,
			PayerDocument:     payerDocument,
		}).
		SetResult(&out).
		Post("/charges")
	if err != nil {
		return nil, fmt.Errorf("%w: create charge: %v", ledgerService.ErrUpstreamUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: create charge returned status %d: %s", ledgerService.ErrUpstreamUnavailable, resp.StatusCode(), out.Message)
	}
	return &Charge{GatewayID: out.ID, QRCode: out.QRCode, ExpiresAt: out.ExpiresAt}, nil
}

type payoutRequest struct {
	Amount            int64  `json:"amount"`
	PixKey            string `json:"pixKey"`
	PixKeyType        string `json:"pixKeyType"`
	ExternalReference string `json:"externalReference"`
}

type payoutResponse struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// CreatePayout asks the gateway to pay a withdrawal to the given PIX key.
// The key goes out exactly as the user registered it.
func (c *Client) CreatePayout(amount int64, pix models.PixDetails, externalReference string) (string, error) {
	var out payoutResponse
	resp, err := c.http.R().
		SetBody(payoutRequest{
			Amount:            amount,
			PixKey:            pix.Key,
			PixKeyType:        pix.KeyType,
			ExternalReference: externalReference,
		}).
		SetResult(&out).
		Post("/payouts")
	if err != nil {
		return "", fmt.Errorf("%w: create payout: %v", ledgerService.ErrUpstreamUnavailable, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: create payout returned status %d: %s", ledgerService.ErrUpstreamUnavailable, resp.StatusCode(), out.Message)
	}
	return out.ID, nil
}

// WebhookPayload is the confirmation body the gateway posts back.
type WebhookPayload struct {
	Event             string `json:"event"`
	GatewayID         string `json:"gatewayId"`
	ExternalReference string `json:"externalReference"`
	UserReference     uint   `json:"userReference"`
	Amount            int64  `json:"amount"`
	EndToEndID        string `json:"endToEndId"`
	PaidAt            string `json:"paidAt"`
}

// PaidTime parses the gateway's RFC3339 paid timestamp, nil when absent or
// malformed.
func (p WebhookPayload) PaidTime() *time.Time {
	if p.Event == "" || p.PaidAt == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, p.PaidAt)
	if err != nil {
		return nil
	}
	return &t
}

// IsPaymentConfirmed reports whether the payload is a confirmation event.
func (p WebhookPayload) IsPaymentConfirmed() bool {
	return strings.EqualFold(p.Event, "PAYMENT_CONFIRMED") || strings.EqualFold(p.Event, "payment.confirmed")
}

// NewExternalReference builds the correlation id embedded in every charge.
func NewExternalReference(userID uint, uniq string) string {
	return fmt.Sprintf("PIX_%d_%d_%s", time.Now().Unix(), userID, uniq)
}

// PixKeyFor returns the receiving key recorded on the transaction, or the
// user's document when none was chosen. The key is passed through verbatim.
func PixKeyFor(details *models.PixDetails, fallbackDocument string) models.PixDetails {
	if details != nil && details.Key != "" {
		return *details
	}
	return models.PixDetails{Key: fallbackDocument, KeyType: "CPF"}
}
