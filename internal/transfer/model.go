package transfer

import (
	"errors"
	"time"

	"github.com/remitlite/remitlite/internal/rates"
)

// ErrNotFound is returned when no transfer matches the lookup.
var ErrNotFound = errors.New("transfer not found")

// Status is the lifecycle state of a transfer.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// PartyRef is the denormalized view of a sender or recipient.
type PartyRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	CountryCode string `json:"country_code"`
	Phone       string `json:"phone,omitempty"`
}

// Record is a persisted transfer. DestinationCountry is the recipient
// country given with the request and may differ from the recipient profile.
type Record struct {
	ID                 string       `json:"id"`
	TrackingNumber     string       `json:"tracking_number"`
	Sender             PartyRef     `json:"sender"`
	Recipient          PartyRef     `json:"recipient"`
	Amount             float64      `json:"amount"`
	FromCurrency       string       `json:"from_currency"`
	ToCurrency         string       `json:"to_currency"`
	ConvertedAmount    float64      `json:"converted_amount"`
	ExchangeRate       float64      `json:"exchange_rate"`
	RateSource         rates.Source `json:"rate_source"`
	Fee                float64      `json:"fee"`
	TotalAmount        float64      `json:"total_amount"`
	DestinationCountry string       `json:"destination_country"`
	DeliveryTime       string       `json:"delivery_time"`
	Status             Status       `json:"status"`
	CreatedAt          time.Time    `json:"created_at"`
	CompletedAt        *time.Time   `json:"completed_at,omitempty"`
}

// PartyInput describes a sender or recipient on a new transfer.
type PartyInput struct {
	Name    string `json:"name" validate:"required,notblank,max=100"`
	Country string `json:"country" validate:"required,len=2"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"omitempty,max=20"`
}

// CreateInput is the request schema for a new transfer.
type CreateInput struct {
	Sender       PartyInput `json:"sender"`
	Recipient    PartyInput `json:"recipient"`
	Amount       float64    `json:"amount" validate:"gt=0"`
	FromCurrency string     `json:"fromCurrency" validate:"required,len=3"`
	ToCurrency   string     `json:"toCurrency" validate:"required,len=3"`
}
