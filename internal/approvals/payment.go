package approvals

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// LegKind classifies one payment leg of a receipt.
type LegKind string

const (
	LegCash  LegKind = "cash"
	LegCard  LegKind = "card"
	LegCheck LegKind = "check"
	LegBond  LegKind = "bond"
)

// IsValid checks if the leg kind is known.
func (k LegKind) IsValid() bool {
	switch k {
	case LegCash, LegCard, LegCheck, LegBond:
		return true
	default:
		return false
	}
}

// PaymentLeg is one way money moved on a receipt. Only the fields relevant
// to the kind are filled.
type PaymentLeg struct {
	Kind   LegKind         `json:"kind"`
	Amount decimal.Decimal `json:"amount"`

	// card and check
	Bank string `json:"bank,omitempty"`
	// check
	Branch        string `json:"branch,omitempty"`
	CheckNumber   string `json:"checkNumber,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	// check and bond
	DueDate string `json:"dueDate,omitempty"`
	// bond
	DebtorName string `json:"debtorName,omitempty"`
	DebtorID   string `json:"debtorId,omitempty"`
	BondNumber string `json:"bondNumber,omitempty"`
	IssueDate  string `json:"issueDate,omitempty"`
}

// Summary renders the leg as one human-readable fragment following a fixed
// rule per kind. The result ends up in the ledger's paymentMethod field.
func (l PaymentLeg) Summary() string {
	amount := l.Amount.StringFixed(2)
	switch l.Kind {
	case LegCash:
		return fmt.Sprintf("cash %s", amount)
	case LegCard:
		if l.Bank == "" {
			return fmt.Sprintf("card %s", amount)
		}
		return fmt.Sprintf("card %s (%s)", amount, l.Bank)
	case LegCheck:
		parts := []string{}
		if l.Bank != "" {
			parts = append(parts, l.Bank)
		}
		if l.CheckNumber != "" {
			parts = append(parts, "no "+l.CheckNumber)
		}
		if l.DueDate != "" {
			parts = append(parts, "due "+l.DueDate)
		}
		if len(parts) == 0 {
			return fmt.Sprintf("check %s", amount)
		}
		return fmt.Sprintf("check %s (%s)", amount, strings.Join(parts, ", "))
	case LegBond:
		parts := []string{}
		if l.BondNumber != "" {
			parts = append(parts, "no "+l.BondNumber)
		}
		if l.DebtorName != "" {
			parts = append(parts, l.DebtorName)
		}
		if l.DueDate != "" {
			parts = append(parts, "due "+l.DueDate)
		}
		if len(parts) == 0 {
			return fmt.Sprintf("bond %s", amount)
		}
		return fmt.Sprintf("bond %s (%s)", amount, strings.Join(parts, ", "))
	default:
		return fmt.Sprintf("%s %s", l.Kind, amount)
	}
}

// SummarizeLegs joins every leg's summary into the receipt's payment
// method line.
func SummarizeLegs(legs []PaymentLeg) string {
	parts := make([]string, len(legs))
	for i, leg := range legs {
		parts[i] = leg.Summary()
	}
	return strings.Join(parts, "; ")
}

// LegsTotal sums the legs' amounts.
func LegsTotal(legs []PaymentLeg) decimal.Decimal {
	total := decimal.Zero
	for _, leg := range legs {
		total = total.Add(leg.Amount)
	}
	return total
}
