package payments

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jkamau254/dukapay/models"
	"github.com/shopspring/decimal"
)

// InMemoryStore implements Store with the same compare-and-swap semantics
// as GormStore. Used by the test suite and for running the API without a
// database.
type InMemoryStore struct {
	mu       sync.Mutex
	payments map[uuid.UUID]*models.Payment
	// insertion order doubles as created_at order for the tie-break
	order []uuid.UUID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		payments: make(map[uuid.UUID]*models.Payment),
	}
}

func (s *InMemoryStore) Create(productID uuid.UUID, amount decimal.Decimal, phoneNumber string) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payment := &models.Payment{
		ID:          uuid.New(),
		ProductID:   productID,
		Amount:      amount,
		PhoneNumber: phoneNumber,
		Status:      models.PaymentStatusPending,
		CreatedAt:   time.Now(),
	}
	s.payments[payment.ID] = payment
	s.order = append(s.order, payment.ID)

	copied := *payment
	return &copied, nil
}

func (s *InMemoryStore) FindCandidates(status string, amount decimal.Decimal, phoneSuffix string) ([]models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var candidates []models.Payment
	for _, id := range s.order {
		p := s.payments[id]
		if p.Status == status && p.Amount.Equal(amount) && strings.HasSuffix(p.PhoneNumber, phoneSuffix) {
			candidates = append(candidates, *p)
		}
	}
	return candidates, nil
}

func (s *InMemoryStore) Transition(id uuid.UUID, newStatus string, providerCode *string) (*models.Payment, error) {
	updates, err := transitionUpdates(newStatus, providerCode)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	payment, ok := s.payments[id]
	if !ok {
		return nil, ErrPaymentNotFound
	}
	if payment.Status != models.PaymentStatusPending {
		copied := *payment
		return &copied, ErrStaleTransition
	}

	payment.Status = updates["status"].(string)
	if receipt, ok := updates["mpesa_receipt"].(string); ok {
		payment.MpesaReceipt = &receipt
	}

	copied := *payment
	return &copied, nil
}

func (s *InMemoryStore) FindByID(id uuid.UUID) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payment, ok := s.payments[id]
	if !ok {
		return nil, ErrPaymentNotFound
	}
	copied := *payment
	return &copied, nil
}
