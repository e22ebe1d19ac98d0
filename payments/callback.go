package payments

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ConfirmationEvent is the normalized form of one inbound stkCallback.
// Optional fields are nil when the provider omitted them; a failure
// callback typically carries none of them.
type ConfirmationEvent struct {
	ResultCode   int
	ResultDesc   string
	Amount       *decimal.Decimal
	ProviderCode *string
	PhoneSuffix  *string
}

type stkCallbackEnvelope struct {
	Body *struct {
		StkCallback *struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
			CallbackMetadata  *struct {
				Item []struct {
					Name  string      `json:"Name"`
					Value interface{} `json:"Value"`
				} `json:"Item"`
			} `json:"CallbackMetadata"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

// ParseConfirmation normalizes a raw callback body. Missing metadata
// fields are tolerated; only a body that is not the stkCallback envelope
// at all is ErrMalformedCallback. Amounts are decoded through json.Number
// so they never pass through a float.
func ParseConfirmation(raw []byte) (ConfirmationEvent, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var envelope stkCallbackEnvelope
	if err := dec.Decode(&envelope); err != nil {
		return ConfirmationEvent{}, ErrMalformedCallback
	}
	if envelope.Body == nil || envelope.Body.StkCallback == nil {
		return ConfirmationEvent{}, ErrMalformedCallback
	}

	stk := envelope.Body.StkCallback
	ev := ConfirmationEvent{
		ResultCode: stk.ResultCode,
		ResultDesc: stk.ResultDesc,
	}

	if stk.CallbackMetadata == nil {
		return ev, nil
	}

	for _, item := range stk.CallbackMetadata.Item {
		switch item.Name {
		case "Amount":
			if amount, ok := metadataDecimal(item.Value); ok {
				ev.Amount = &amount
			}
		case "MpesaReceiptNumber":
			if code, ok := item.Value.(string); ok && code != "" {
				ev.ProviderCode = &code
			}
		case "PhoneNumber":
			if phone, ok := metadataString(item.Value); ok {
				if suffix := PhoneSuffix(phone); suffix != "" {
					ev.PhoneSuffix = &suffix
				}
			}
		}
	}

	return ev, nil
}

func metadataDecimal(value interface{}) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(v)
		return d, err == nil
	}
	return decimal.Decimal{}, false
}

// The provider encodes PhoneNumber as a bare number in some payloads and
// as a string in others.
func metadataString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case json.Number:
		return v.String(), true
	case string:
		return v, v != ""
	}
	return "", false
}
