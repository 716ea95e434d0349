package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hearthledger/backend/internal/models"
)

// AutoAttribute links payments to the income events that fund them.
//
// With a payment ID, only that payment is attributed. With the nil
// UUID, all scheduled payments of the family that are not yet fully
// attributed are processed in ascending due date order, tie-broken by
// ID, so that repeated runs converge to the same result.
//
// Income events are consumed greedily in ascending scheduled date
// order: the oldest obligations are funded from the oldest income
// first. An income event never funds more than it actually received
// and a payment is never attributed beyond its amount.
//
// Returns the number of payments that received at least one new
// attribution.
func AutoAttribute(db *gorm.DB, familyID, paymentID uuid.UUID) (int, error) {
	var count int

	err := db.Transaction(func(tx *gorm.DB) error {
		payments, err := attributionTargets(tx, familyID, paymentID)
		if err != nil {
			return err
		}

		// Income events with remaining balance, oldest first
		var events []models.IncomeEvent
		err = tx.
			Where(&models.IncomeEvent{FamilyID: familyID}).
			Where("received_amount > ?", decimal.Zero).
			Order("scheduled_date ASC, id ASC").
			Find(&events).Error
		if err != nil {
			return err
		}

		remaining := make([]decimal.Decimal, len(events))
		available := false
		for i, event := range events {
			remaining[i], err = event.RemainingBalance(tx)
			if err != nil {
				return err
			}

			if remaining[i].IsPositive() {
				available = true
			}
		}

		if !available {
			return models.ErrNoAvailableIncomeEvents
		}

		for _, payment := range payments {
			open, err := payment.RemainingAmount(tx)
			if err != nil {
				return err
			}

			attributed := false
			for i := range events {
				if !open.IsPositive() {
					break
				}

				if !remaining[i].IsPositive() {
					continue
				}

				amount := decimal.Min(open, remaining[i])
				attribution := models.PaymentAttribution{
					PaymentID:       payment.ID,
					IncomeEventID:   events[i].ID,
					Amount:          amount,
					AttributionType: models.AttributionTypeAutomatic,
				}

				err = tx.Create(&attribution).Error
				if err != nil {
					return err
				}

				open = open.Sub(amount)
				remaining[i] = remaining[i].Sub(amount)
				attributed = true
			}

			if attributed {
				count++
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

// attributionTargets returns the payments to attribute, in a stable
// deterministic order.
func attributionTargets(tx *gorm.DB, familyID, paymentID uuid.UUID) ([]models.Payment, error) {
	if paymentID != uuid.Nil {
		var payment models.Payment
		err := tx.First(&payment, "id = ? AND family_id = ?", paymentID, familyID).Error
		if err != nil {
			return nil, err
		}

		open, err := payment.RemainingAmount(tx)
		if err != nil {
			return nil, err
		}

		if !open.IsPositive() {
			return nil, models.ErrPaymentFullyAttributed
		}

		return []models.Payment{payment}, nil
	}

	var payments []models.Payment
	err := tx.
		Where(&models.Payment{FamilyID: familyID, Status: models.PaymentStatusScheduled}).
		Order("due_date ASC, id ASC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}

	targets := make([]models.Payment, 0, len(payments))
	for _, payment := range payments {
		open, err := payment.RemainingAmount(tx)
		if err != nil {
			return nil, err
		}

		if open.IsPositive() {
			targets = append(targets, payment)
		}
	}

	return targets, nil
}

// MarkPaid moves a scheduled or overdue payment to the paid status.
func MarkPaid(db *gorm.DB, familyID, paymentID uuid.UUID) (models.Payment, error) {
	var payment models.Payment

	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&payment, "id = ? AND family_id = ?", paymentID, familyID).Error
		if err != nil {
			return err
		}

		if payment.Status == models.PaymentStatusPaid {
			return models.ErrPaymentAlreadyPaid
		}

		return tx.Model(&payment).Update("status", models.PaymentStatusPaid).Error
	})
	if err != nil {
		return models.Payment{}, err
	}

	return payment, nil
}

// RevertPaid moves a paid payment back to scheduled.
//
// Attributions are kept: whether a payment has been executed and how
// it was funded are orthogonal facts, reverting the status does not
// rewrite the funding history.
func RevertPaid(db *gorm.DB, familyID, paymentID uuid.UUID) (models.Payment, error) {
	var payment models.Payment

	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&payment, "id = ? AND family_id = ?", paymentID, familyID).Error
		if err != nil {
			return err
		}

		if payment.Status != models.PaymentStatusPaid {
			return models.ErrPaymentNotPaid
		}

		return tx.Model(&payment).Update("status", models.PaymentStatusScheduled).Error
	})
	if err != nil {
		return models.Payment{}, err
	}

	return payment, nil
}

// AttributionIncomeEvent is the income event data embedded in an
// attribution listing.
type AttributionIncomeEvent struct {
	ID            uuid.UUID       `json:"id" example:"9e6ab1ac-39bb-4486-9a68-297f4ff6e1ae"` // ID of the income event
	Name          string          `json:"name" example:"Paycheck March"`                     // Name of the income event
	ScheduledDate time.Time       `json:"scheduledDate" example:"2024-03-01T00:00:00Z"`      // Date the income is scheduled for
	Amount        decimal.Decimal `json:"amount" example:"2500"`                             // Amount of the income event
}

// Attribution is one funding record of a payment.
type Attribution struct {
	ID              uuid.UUID              `json:"id" example:"a3795e4d-a2c9-49fb-a416-b8b4cd4eff1b"`  // ID of the attribution
	Amount          decimal.Decimal        `json:"amount" example:"50"`                                // Attributed amount
	AttributionType string                 `json:"attributionType" example:"automatic" enums:"manual,automatic"` // How the attribution was created
	CreatedAt       time.Time              `json:"createdAt" example:"2024-03-02T19:28:44.491514Z"`    // Time the attribution was created
	IncomeEvent     AttributionIncomeEvent `json:"incomeEvent"`                                        // The income event funding the payment
}

// AttributionSummary sums up the funding state of a payment.
type AttributionSummary struct {
	TotalAttributed  decimal.Decimal `json:"totalAttributed" example:"200"` // Sum of all attributions
	RemainingAmount  decimal.Decimal `json:"remainingAmount" example:"0"`   // Payment amount minus the attributed sum
	PaymentAmount    decimal.Decimal `json:"paymentAmount" example:"200"`   // Amount of the payment
	AttributionCount int             `json:"attributionCount" example:"2"`  // Number of attributions
}

// AttributionResult is the full funding state of a payment.
type AttributionResult struct {
	Attributions []Attribution      `json:"attributions"` // All attributions of the payment
	Summary      AttributionSummary `json:"summary"`      // Computed summary
}

// Attributions returns all attributions of a payment together with
// their income events and a computed summary.
func Attributions(db *gorm.DB, familyID, paymentID uuid.UUID) (AttributionResult, error) {
	var payment models.Payment
	err := db.First(&payment, "id = ? AND family_id = ?", paymentID, familyID).Error
	if err != nil {
		return AttributionResult{}, err
	}

	var attributions []models.PaymentAttribution
	err = db.
		Preload("IncomeEvent").
		Where(&models.PaymentAttribution{PaymentID: payment.ID}).
		Order("created_at ASC, id ASC").
		Find(&attributions).Error
	if err != nil {
		return AttributionResult{}, err
	}

	result := AttributionResult{
		Attributions: make([]Attribution, 0, len(attributions)),
	}

	total := decimal.Zero
	for _, attribution := range attributions {
		total = total.Add(attribution.Amount)
		result.Attributions = append(result.Attributions, Attribution{
			ID:              attribution.ID,
			Amount:          attribution.Amount,
			AttributionType: attribution.AttributionType,
			CreatedAt:       attribution.CreatedAt,
			IncomeEvent: AttributionIncomeEvent{
				ID:            attribution.IncomeEvent.ID,
				Name:          attribution.IncomeEvent.Name,
				ScheduledDate: attribution.IncomeEvent.ScheduledDate,
				Amount:        attribution.IncomeEvent.Amount,
			},
		})
	}

	result.Summary = AttributionSummary{
		TotalAttributed:  total,
		RemainingAmount:  payment.Amount.Sub(total),
		PaymentAmount:    payment.Amount,
		AttributionCount: len(result.Attributions),
	}

	return result, nil
}
