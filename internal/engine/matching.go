package engine

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"gorm.io/gorm"

	"github.com/hearthledger/backend/internal/models"
)

// MatchType classifies a proposed match by its confidence.
type MatchType string

const (
	MatchTypeExactAmount MatchType = "exact_amount"
	MatchTypeCloseAmount MatchType = "close_amount"
	MatchTypeMerchant    MatchType = "merchant_match"
	MatchTypeDateRange   MatchType = "date_range"
)

// Weights and cutoffs for the confidence score. The tier thresholds
// below are contractual, the weighting itself is a tunable heuristic.
const (
	amountWeight   = 0.6
	merchantWeight = 0.25
	dateWeight     = 0.15

	// Pairs whose amounts differ by more than this relative amount are
	// not considered at all.
	amountCutoff = 0.25

	// Days around the due date in which a transaction still gets date
	// proximity credit.
	dateWindowDays = 30
)

// Match is one proposed link between a bank transaction and a
// scheduled payment.
type Match struct {
	TransactionID uuid.UUID `json:"transactionId" example:"d07595ea-a9d1-40f3-a2af-0185b7e0b0ed"` // ID of the bank transaction
	PaymentID     uuid.UUID `json:"paymentId" example:"31a2e5f1-8c0b-4cc3-b6d8-44c3d091f4be"`     // ID of the payment
	Confidence    float64   `json:"confidence" example:"0.95"`                                    // Confidence of the match, 0..1
	MatchType     MatchType `json:"matchType" example:"exact_amount" enums:"exact_amount,close_amount,merchant_match,date_range"` // Tier derived from the confidence
}

// MatchOptions restricts the candidate transactions.
type MatchOptions struct {
	From           time.Time   // Earliest transaction date, zero for unbounded
	To             time.Time   // Latest transaction date, zero for unbounded
	BankAccountIDs []uuid.UUID // Accounts to consider, empty for all accounts of the family
}

// MatchTransactions proposes links between unlinked bank transactions
// and open payments of a family.
//
// Every candidate pair gets a confidence score from amount equality,
// amount closeness, merchant name similarity and date proximity. The
// result is a stable one-to-one assignment: pairs are claimed in
// descending confidence order, no transaction or payment appears
// twice. Nothing is persisted, confirming a match is a separate step.
func MatchTransactions(db *gorm.DB, familyID uuid.UUID, opts MatchOptions) ([]Match, error) {
	err := db.First(&models.Family{}, familyID).Error
	if err != nil {
		return nil, err
	}

	// Transactions that are already linked to a payment are settled
	// and no longer candidates. Pending transactions are not booked yet
	// and may still change amount or disappear, so they are skipped too.
	q := db.
		Where(&models.Transaction{FamilyID: familyID}).
		Where("pending = ?", false).
		Where("id NOT IN (?)", db.Model(&models.Payment{}).
			Where("transaction_id IS NOT NULL").
			Select("transaction_id"))

	if !opts.From.IsZero() {
		q = q.Where("date >= ?", opts.From.In(time.UTC))
	}

	if !opts.To.IsZero() {
		q = q.Where("date <= ?", opts.To.In(time.UTC))
	}

	if len(opts.BankAccountIDs) > 0 {
		q = q.Where("bank_account_id IN (?)", opts.BankAccountIDs)
	}

	var transactions []models.Transaction
	err = q.Order("date ASC, id ASC").Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	var payments []models.Payment
	err = db.
		Where(&models.Payment{FamilyID: familyID}).
		Where("status IN (?)", []string{models.PaymentStatusScheduled, models.PaymentStatusOverdue}).
		Order("due_date ASC, id ASC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}

	type candidate struct {
		transaction uuid.UUID
		payment     uuid.UUID
		confidence  float64
	}

	var candidates []candidate
	for _, transaction := range transactions {
		for _, payment := range payments {
			confidence, ok := matchConfidence(transaction, payment)
			if !ok {
				continue
			}

			candidates = append(candidates, candidate{
				transaction: transaction.ID,
				payment:     payment.ID,
				confidence:  confidence,
			})
		}
	}

	// Highest confidence first, IDs as tie break for determinism
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].confidence != candidates[j].confidence {
			return candidates[i].confidence > candidates[j].confidence
		}

		if candidates[i].transaction != candidates[j].transaction {
			return candidates[i].transaction.String() < candidates[j].transaction.String()
		}

		return candidates[i].payment.String() < candidates[j].payment.String()
	})

	claimedTransactions := make(map[uuid.UUID]bool)
	claimedPayments := make(map[uuid.UUID]bool)

	matches := make([]Match, 0)
	for _, c := range candidates {
		if claimedTransactions[c.transaction] || claimedPayments[c.payment] {
			continue
		}

		claimedTransactions[c.transaction] = true
		claimedPayments[c.payment] = true

		matches = append(matches, Match{
			TransactionID: c.transaction,
			PaymentID:     c.payment,
			Confidence:    c.confidence,
			MatchType:     MatchTypeFor(c.confidence),
		})
	}

	return matches, nil
}

// MatchTypeFor derives the match tier from a confidence value. The
// thresholds are fixed, the tier is a pure function of the confidence.
func MatchTypeFor(confidence float64) MatchType {
	switch {
	case confidence >= 0.9:
		return MatchTypeExactAmount
	case confidence >= 0.7:
		return MatchTypeCloseAmount
	case confidence >= 0.5:
		return MatchTypeMerchant
	default:
		return MatchTypeDateRange
	}
}

// matchConfidence scores a (transaction, payment) pair. The second
// return value is false when the pair is excluded outright.
func matchConfidence(transaction models.Transaction, payment models.Payment) (float64, bool) {
	amount, ok := amountScore(transaction.Amount, payment.Amount)
	if !ok {
		return 0, false
	}

	merchant := merchantScore(transaction.MerchantName, transaction.Description, payment.Payee)
	date := dateScore(transaction.Date, payment.DueDate)

	return amountWeight*amount + merchantWeight*merchant + dateWeight*date, true
}

// amountScore compares the absolute transaction amount with the
// payment amount. An exact match scores 1, the score decays with the
// relative difference and pairs beyond the cutoff are excluded.
func amountScore(transactionAmount, paymentAmount decimal.Decimal) (float64, bool) {
	if !paymentAmount.IsPositive() {
		return 0, false
	}

	diff := transactionAmount.Abs().Sub(paymentAmount).Abs()
	if diff.IsZero() {
		return 1, true
	}

	relative, _ := diff.Div(paymentAmount).Float64()
	if relative > amountCutoff {
		return 0, false
	}

	return 1 - relative/amountCutoff, true
}

// merchantScore compares the transaction merchant name (falling back
// to the description) with the payment payee, case-insensitively.
// A substring match scores 1, otherwise the token overlap counts.
func merchantScore(merchant, description, payee string) float64 {
	fold := cases.Fold()

	name := fold.String(strings.TrimSpace(merchant))
	if name == "" {
		name = fold.String(strings.TrimSpace(description))
	}
	target := fold.String(strings.TrimSpace(payee))

	if name == "" || target == "" {
		return 0
	}

	if strings.Contains(name, target) || strings.Contains(target, name) {
		return 1
	}

	nameTokens := strings.Fields(name)
	targetTokens := strings.Fields(target)

	seen := make(map[string]bool, len(nameTokens))
	for _, token := range nameTokens {
		seen[token] = true
	}

	overlap := 0
	for _, token := range targetTokens {
		if seen[token] {
			overlap++
		}
	}

	return float64(overlap) / float64(len(targetTokens))
}

// dateScore rates the proximity of the transaction date to the due
// date. Same day scores 1, the score decays linearly to 0 at the edge
// of the window.
func dateScore(date, dueDate time.Time) float64 {
	days := date.Sub(dueDate).Hours() / 24
	if days < 0 {
		days = -days
	}

	if days > dateWindowDays {
		return 0
	}

	return 1 - days/dateWindowDays
}
