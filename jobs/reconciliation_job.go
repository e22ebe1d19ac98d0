package jobs

import (
	"log"
	"time"

	"github.com/jkamau254/dukapay/database"
	"github.com/jkamau254/dukapay/models"
)

const stalePendingThreshold = time.Hour

// LogStalePendingPayments reports pending payments whose confirmation
// never arrived. Read-only: records are left pending for manual
// reconciliation, the payment core never expires them.
func LogStalePendingPayments() {
	log.Println("Running job: LogStalePendingPayments...")

	cutoff := time.Now().Add(-stalePendingThreshold)

	var stale []models.Payment
	err := database.DB.
		Where("status = ? AND created_at < ?", models.PaymentStatusPending, cutoff).
		Order("created_at ASC").
		Find(&stale).Error
	if err != nil {
		log.Printf("Error checking for stale pending payments: %v", err)
		return
	}

	if len(stale) == 0 {
		return
	}

	log.Printf("⚠️  %d payment(s) pending for more than %s:", len(stale), stalePendingThreshold)
	for _, payment := range stale {
		log.Printf("  payment %s: %s KES for product %s, initiated %s",
			payment.ID, payment.Amount, payment.ProductID, payment.CreatedAt.Format(time.RFC3339))
	}
}
