package payments

import (
	"github.com/jkamau254/dukapay/models"
)

// Matcher correlates a confirmation event with the pending payment it
// concerns. The key is weak (exact amount + phone suffix) because the
// provider does not echo a reliable transaction id on every callback, so
// the whole policy lives here: a stronger key can replace it without
// touching the store or the transition logic.
type Matcher struct {
	store Store
}

func NewMatcher(store Store) *Matcher {
	return &Matcher{store: store}
}

// Match returns the pending payment the event confirms, or ErrNoMatch.
// Success events must carry amount, receipt and phone suffix; failure
// events never carry a receipt, so for those amount and suffix suffice.
// When several pending records collide on (amount, suffix) the oldest
// wins: first opened, first confirmed. That is an approximation, not a
// guarantee.
func (m *Matcher) Match(ev ConfirmationEvent) (*models.Payment, error) {
	if ev.Amount == nil || ev.PhoneSuffix == nil {
		return nil, ErrNoMatch
	}
	if ev.ResultCode == 0 && ev.ProviderCode == nil {
		return nil, ErrNoMatch
	}

	candidates, err := m.store.FindCandidates(models.PaymentStatusPending, *ev.Amount, *ev.PhoneSuffix)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNoMatch
	}

	// candidates are oldest-first
	return &candidates[0], nil
}
