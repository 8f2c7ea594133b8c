package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

type Method string

const (
	MethodBankTransfer Method = "bank_transfer"
	MethodEWallet      Method = "e_wallet"
	MethodCOD          Method = "cash_on_delivery"
)

type Payment struct {
	ID             uint            `json:"id"`
	OrderID        uint            `json:"order_id"`
	Amount         decimal.Decimal `json:"amount"`
	Method         Method          `json:"method"`
	ProofReference *string         `json:"proof_reference,omitempty"`
	Status         Status          `json:"status"`
	TransactionID  *string         `json:"transaction_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func ValidMethod(m Method) bool {
	switch m {
	case MethodBankTransfer, MethodEWallet, MethodCOD:
		return true
	}
	return false
}
