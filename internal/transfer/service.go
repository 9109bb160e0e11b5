package transfer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/remitlite/remitlite/internal/identity"
	"github.com/remitlite/remitlite/internal/metrics"
	"github.com/remitlite/remitlite/internal/notification"
	"github.com/remitlite/remitlite/internal/pricing"
	"github.com/remitlite/remitlite/internal/rates"
)

// RateResolver prices a conversion.
type RateResolver interface {
	Resolve(ctx context.Context, base, quote string, amount float64) rates.Quote
}

// PartyResolver finds or creates transfer parties.
type PartyResolver interface {
	ResolveParty(ctx context.Context, p identity.Party) (identity.User, error)
}

// Service assembles, persists and reads transfers.
type Service struct {
	repo     Repository
	parties  PartyResolver
	rates    RateResolver
	notifier notification.Notifier
	metrics  *metrics.Metrics
	logger   *slog.Logger
	tracking TrackingGenerator
	now      func() time.Time
}

// Deps groups the collaborators of Service. Notifier and Metrics are optional.
type Deps struct {
	Repo     Repository
	Parties  PartyResolver
	Rates    RateResolver
	Notifier notification.Notifier
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

// NewService constructs a transfer service.
func NewService(d Deps) (*Service, error) {
	tracking, err := NewTrackingGenerator()
	if err != nil {
		return nil, err
	}
	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		repo:     d.Repo,
		parties:  d.Parties,
		rates:    d.Rates,
		notifier: d.Notifier,
		metrics:  d.Metrics,
		logger:   logger,
		tracking: tracking,
		now:      time.Now,
	}, nil
}

// Create resolves both parties, prices the transfer and stores it as
// completed. Nothing is stored when party resolution fails.
func (s *Service) Create(ctx context.Context, in CreateInput) (Record, error) {
	sender, err := s.parties.ResolveParty(ctx, identity.Party{
		Name: in.Sender.Name, Country: in.Sender.Country, Email: in.Sender.Email, Phone: in.Sender.Phone,
	})
	if err != nil {
		return Record{}, fmt.Errorf("resolve sender: %w", err)
	}
	recipient, err := s.parties.ResolveParty(ctx, identity.Party{
		Name: in.Recipient.Name, Country: in.Recipient.Country, Email: in.Recipient.Email, Phone: in.Recipient.Phone,
	})
	if err != nil {
		return Record{}, fmt.Errorf("resolve recipient: %w", err)
	}

	quote := s.rates.Resolve(ctx, in.FromCurrency, in.ToCurrency, in.Amount)
	fee := pricing.Fee(in.Amount)
	destination := strings.ToUpper(strings.TrimSpace(in.Recipient.Country))
	// Postgres keeps microseconds; the returned record must match what is read back.
	now := s.now().UTC().Truncate(time.Microsecond)

	rec := Record{
		ID:                 uuid.NewString(),
		TrackingNumber:     s.tracking(),
		Sender:             partyRef(sender),
		Recipient:          partyRef(recipient),
		Amount:             in.Amount,
		FromCurrency:       quote.Base,
		ToCurrency:         quote.Quote,
		ConvertedAmount:    quote.Converted,
		ExchangeRate:       quote.Rate,
		RateSource:         quote.Source,
		Fee:                fee,
		TotalAmount:        in.Amount + fee,
		DestinationCountry: destination,
		DeliveryTime:       pricing.DeliveryTime(destination),
		Status:             StatusCompleted,
		CreatedAt:          now,
		CompletedAt:        &now,
	}

	if err := s.repo.Save(ctx, rec); err != nil {
		return Record{}, fmt.Errorf("save transfer: %w", err)
	}
	s.metrics.RecordTransfer(rec.FromCurrency, rec.ToCurrency, rec.Amount, rec.Fee)
	s.logger.Info("transfer created",
		slog.String("transfer_id", rec.ID),
		slog.String("tracking_number", rec.TrackingNumber),
		slog.String("rate_source", string(rec.RateSource)))

	if s.notifier != nil {
		msg := notification.Message{
			Kind:        notification.KindTransferCompleted,
			Destination: notificationDestination(recipient),
			Body: fmt.Sprintf("%s sent you %.2f %s (tracking %s)",
				sender.Name, rec.ConvertedAmount, rec.ToCurrency, rec.TrackingNumber),
		}
		if err := s.notifier.Send(ctx, msg); err != nil {
			s.logger.Warn("transfer notification failed", slog.String("transfer_id", rec.ID), slog.Any("error", err))
		}
	}
	return rec, nil
}

// Get returns a transfer by id or tracking number.
func (s *Service) Get(ctx context.Context, idOrTracking string) (Record, error) {
	return s.repo.Get(ctx, idOrTracking)
}

// List returns transfers newest first. A limit of zero returns all of them.
func (s *Service) List(ctx context.Context, limit int) ([]Record, error) {
	return s.repo.List(ctx, ListFilter{Limit: limit})
}

// ListForParty returns transfers sent or received by partyID, newest first.
func (s *Service) ListForParty(ctx context.Context, partyID string, limit int) ([]Record, error) {
	return s.repo.List(ctx, ListFilter{PartyID: partyID, Limit: limit})
}

func partyRef(u identity.User) PartyRef {
	return PartyRef{ID: u.ID, Name: u.Name, Email: u.Email, CountryCode: u.CountryCode, Phone: u.Phone}
}

func notificationDestination(u identity.User) string {
	switch {
	case u.Email != "":
		return u.Email
	case u.Phone != "":
		return u.Phone
	default:
		return u.ID
	}
}
