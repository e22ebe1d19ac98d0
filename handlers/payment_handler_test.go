package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jkamau254/dukapay/models"
	"github.com/jkamau254/dukapay/payments"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGateway struct {
	err error
}

func (g *stubGateway) RequestPayment(phone string, amount decimal.Decimal, reference string) (*payments.StkPushResponse, error) {
	if g.err != nil {
		return nil, g.err
	}
	return &payments.StkPushResponse{ResponseCode: "0"}, nil
}

func newWebhookApp(t *testing.T) (*fiber.App, *payments.InMemoryStore) {
	t.Helper()

	store := payments.NewInMemoryStore()
	InitPayments(store, &stubGateway{})

	app := fiber.New()
	app.Post("/api/v1/payments/webhook", HandlePaymentWebhook)
	return app, store
}

func postWebhook(t *testing.T, app *fiber.App, body string) (int, map[string]string) {
	t.Helper()

	req := httptest.NewRequest("POST", "/api/v1/payments/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed map[string]string
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return resp.StatusCode, parsed
}

func confirmationBody(amount, receipt string, phone int64) string {
	return fmt.Sprintf(`{"Body":{"stkCallback":{"ResultCode":0,"ResultDesc":"ok","CallbackMetadata":{"Item":[
		{"Name":"Amount","Value":%s},
		{"Name":"MpesaReceiptNumber","Value":"%s"},
		{"Name":"PhoneNumber","Value":%d}
	]}}}}`, amount, receipt, phone)
}

func TestWebhookConfirmsPendingPayment(t *testing.T) {
	app, store := newWebhookApp(t)

	payment, err := store.Create(uuid.New(), decimal.RequireFromString("500.00"), "254712345678")
	require.NoError(t, err)

	status, body := postWebhook(t, app, confirmationBody("500.00", "ABC123", 254712345678))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "success", body["status"])

	confirmed, err := store.FindByID(payment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSucceeded, confirmed.Status)
	require.NotNil(t, confirmed.MpesaReceipt)
	assert.Equal(t, "ABC123", *confirmed.MpesaReceipt)
}

func TestWebhookAcknowledgesUnmatched(t *testing.T) {
	app, store := newWebhookApp(t)

	payment, err := store.Create(uuid.New(), decimal.RequireFromString("500.00"), "254712345678")
	require.NoError(t, err)

	// nothing pending for this amount; must still be acknowledged
	status, body := postWebhook(t, app, confirmationBody("999.00", "ZZZ999", 254700000000))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "success", body["status"])

	untouched, err := store.FindByID(payment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, untouched.Status)
}

func TestWebhookAcknowledgesDuplicate(t *testing.T) {
	app, store := newWebhookApp(t)

	payment, err := store.Create(uuid.New(), decimal.RequireFromString("500.00"), "254712345678")
	require.NoError(t, err)

	body := confirmationBody("500.00", "ABC123", 254712345678)

	status, _ := postWebhook(t, app, body)
	assert.Equal(t, fiber.StatusOK, status)
	status, resp := postWebhook(t, app, body)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "success", resp["status"])

	confirmed, err := store.FindByID(payment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSucceeded, confirmed.Status)
	assert.Equal(t, "ABC123", *confirmed.MpesaReceipt)
}

func TestWebhookAcknowledgesFailureCallback(t *testing.T) {
	app, store := newWebhookApp(t)

	payment, err := store.Create(uuid.New(), decimal.RequireFromString("500.00"), "254712345678")
	require.NoError(t, err)

	// cancellation callbacks carry no metadata, so nothing can be matched
	status, body := postWebhook(t, app, `{"Body":{"stkCallback":{"ResultCode":1032,"ResultDesc":"Request cancelled by user."}}}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "success", body["status"])

	untouched, err := store.FindByID(payment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, untouched.Status)
}

func TestWebhookRejectsMalformedPayload(t *testing.T) {
	app, store := newWebhookApp(t)

	payment, err := store.Create(uuid.New(), decimal.RequireFromString("500.00"), "254712345678")
	require.NoError(t, err)

	status, body := postWebhook(t, app, `{"unexpected":"envelope"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "error", body["status"])

	untouched, err := store.FindByID(payment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, untouched.Status)
}

func TestWebhookRejectsNonPost(t *testing.T) {
	app, _ := newWebhookApp(t)

	req := httptest.NewRequest("GET", "/api/v1/payments/webhook", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusMethodNotAllowed, resp.StatusCode)
}
