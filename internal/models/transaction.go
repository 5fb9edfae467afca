package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType is the direction of money movement
type PaymentType string

const (
	Debit  PaymentType = "DEBIT"
	Credit PaymentType = "CREDIT"
)

// ParsePaymentType normalizes the stored payment type, which may be any case
func ParsePaymentType(raw string) PaymentType {
	return PaymentType(strings.ToUpper(strings.TrimSpace(raw)))
}

// Transaction represents a categorized bank transaction
type Transaction struct {
	ID            int64           `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"txn_date"`
	PaymentType   PaymentType     `json:"payment_type"`
	CategoryName  string          `json:"category_name"`
	CategoryColor string          `json:"category_color"`
	MerchantName  string          `json:"merchant_name"`
	PaymentMode   string          `json:"payment_mode,omitempty"`
	BankName      string          `json:"bank_name,omitempty"`
}
