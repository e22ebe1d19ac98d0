package payments

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jkamau254/dukapay/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Store is the single mutation point for payment records. Transition must
// be atomic per record: of any number of concurrent confirmations for the
// same payment, exactly one may move it out of pending.
type Store interface {
	Create(productID uuid.UUID, amount decimal.Decimal, phoneNumber string) (*models.Payment, error)
	// FindCandidates returns records oldest-first; the matcher relies on
	// that order for its tie-break.
	FindCandidates(status string, amount decimal.Decimal, phoneSuffix string) ([]models.Payment, error)
	Transition(id uuid.UUID, newStatus string, providerCode *string) (*models.Payment, error)
	FindByID(id uuid.UUID) (*models.Payment, error)
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(productID uuid.UUID, amount decimal.Decimal, phoneNumber string) (*models.Payment, error) {
	payment := models.Payment{
		ProductID:   productID,
		Amount:      amount,
		PhoneNumber: phoneNumber,
		Status:      models.PaymentStatusPending,
	}
	if err := s.db.Create(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (s *GormStore) FindCandidates(status string, amount decimal.Decimal, phoneSuffix string) ([]models.Payment, error) {
	var candidates []models.Payment
	err := s.db.
		Where("status = ? AND amount = ? AND phone_number LIKE ?", status, amount, "%"+phoneSuffix).
		Order("created_at ASC").
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

// Transition is an optimistic compare-and-swap on status: the UPDATE only
// applies while the record is still pending, so a duplicate confirmation
// that lost the race sees zero rows affected and gets ErrStaleTransition.
func (s *GormStore) Transition(id uuid.UUID, newStatus string, providerCode *string) (*models.Payment, error) {
	updates, err := transitionUpdates(newStatus, providerCode)
	if err != nil {
		return nil, err
	}

	result := s.db.Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, models.PaymentStatusPending).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}

	var payment models.Payment
	if err := s.db.First(&payment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	if result.RowsAffected == 0 {
		return &payment, ErrStaleTransition
	}
	return &payment, nil
}

func (s *GormStore) FindByID(id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.First(&payment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// transitionUpdates validates the requested transition and builds the
// column set. The receipt is written if and only if the target state is
// succeeded.
func transitionUpdates(newStatus string, providerCode *string) (map[string]interface{}, error) {
	switch newStatus {
	case models.PaymentStatusSucceeded:
		if providerCode == nil || *providerCode == "" {
			return nil, fmt.Errorf("succeeded transition requires a provider receipt")
		}
		return map[string]interface{}{
			"status":        models.PaymentStatusSucceeded,
			"mpesa_receipt": *providerCode,
		}, nil
	case models.PaymentStatusFailed:
		return map[string]interface{}{"status": models.PaymentStatusFailed}, nil
	default:
		return nil, fmt.Errorf("illegal payment transition to %q", newStatus)
	}
}
