package payments

import (
	"log"

	"github.com/jkamau254/dukapay/models"
)

// Processor drives a matched payment through its one legal transition:
// pending to succeeded or pending to failed. The store's compare-and-swap
// makes the transition at-most-once even though the provider delivers
// at-least-once.
type Processor struct {
	store   Store
	matcher *Matcher
}

func NewProcessor(store Store) *Processor {
	return &Processor{store: store, matcher: NewMatcher(store)}
}

// Process applies one confirmation event. It returns the payment in its
// final state, ErrNoMatch when nothing corresponds to the event, and
// ErrStaleTransition when the record was already terminal (a replay);
// callers acknowledge both of those as success to the provider.
func (p *Processor) Process(ev ConfirmationEvent) (*models.Payment, error) {
	payment, err := p.matcher.Match(ev)
	if err != nil {
		return nil, err
	}

	if ev.ResultCode == 0 {
		confirmed, err := p.store.Transition(payment.ID, models.PaymentStatusSucceeded, ev.ProviderCode)
		if err != nil {
			return confirmed, err
		}
		log.Printf("Payment %s confirmed with receipt %s", confirmed.ID, *ev.ProviderCode)
		return confirmed, nil
	}

	failed, err := p.store.Transition(payment.ID, models.PaymentStatusFailed, nil)
	if err != nil {
		return failed, err
	}
	log.Printf("Payment %s failed: %s (code %d)", failed.ID, ev.ResultDesc, ev.ResultCode)
	return failed, nil
}
