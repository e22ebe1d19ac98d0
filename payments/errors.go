package payments

import "errors"

var (
	// Token acquisition or network failure before the provider gave any
	// answer. No payment record exists for these.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// The provider answered synchronously with a rejection.
	ErrProviderRejected = errors.New("payment provider rejected the request")

	// The callback body is not the expected stkCallback envelope.
	ErrMalformedCallback = errors.New("malformed callback payload")

	// A valid confirmation that no pending record corresponds to.
	ErrNoMatch = errors.New("no matching pending payment")

	// The matched record already left pending. Duplicate and replayed
	// callbacks end up here and must be acknowledged as success.
	ErrStaleTransition = errors.New("payment already in a terminal state")

	ErrPaymentNotFound = errors.New("payment not found")
)
