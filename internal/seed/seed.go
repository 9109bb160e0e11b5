package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/remitlite/remitlite/internal/identity"
	"github.com/remitlite/remitlite/internal/pricing"
	"github.com/remitlite/remitlite/internal/rates"
	"github.com/remitlite/remitlite/internal/transfer"
)

// SamplePassword is shared by every seeded account.
const SamplePassword = "Password123!"

var sampleUsers = []identity.Registration{
	{Name: "John Smith", Email: "john.smith@example.com", CountryCode: "US", Phone: "+1-555-0101"},
	{Name: "Emma Wilson", Email: "emma.wilson@example.com", CountryCode: "GB", Phone: "+44-20-7946-0102"},
	{Name: "Raj Patel", Email: "raj.patel@example.com", CountryCode: "IN", Phone: "+91-98765-00103"},
	{Name: "Yuki Tanaka", Email: "yuki.tanaka@example.com", CountryCode: "JP", Phone: "+81-3-5555-0104"},
	{Name: "Sophie Martin", Email: "sophie.martin@example.com", CountryCode: "FR", Phone: "+33-1-5555-0105"},
	{Name: "Lukas Weber", Email: "lukas.weber@example.com", CountryCode: "DE", Phone: "+49-30-5555-0106"},
	{Name: "Olivia Brown", Email: "olivia.brown@example.com", CountryCode: "CA", Phone: "+1-416-555-0107"},
	{Name: "Jack Taylor", Email: "jack.taylor@example.com", CountryCode: "AU", Phone: "+61-2-5555-0108"},
}

var countryCurrency = map[string]string{
	"US": "USD", "GB": "GBP", "IN": "INR", "JP": "JPY",
	"FR": "EUR", "DE": "EUR", "CA": "CAD", "AU": "AUD",
}

// Seeder fills empty stores with demo data.
type Seeder struct {
	ids       *identity.Service
	transfers transfer.Repository
	table     rates.Table
	logger    *slog.Logger
	rng       *rand.Rand
	now       func() time.Time
}

// New builds a Seeder. The seed makes runs reproducible.
func New(ids *identity.Service, transfers transfer.Repository, logger *slog.Logger, seed uint64) *Seeder {
	return &Seeder{
		ids:       ids,
		transfers: transfers,
		table:     rates.DefaultTable(),
		logger:    logger,
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		now:       time.Now,
	}
}

// Result summarizes a seeding run.
type Result struct {
	Users     int
	Transfers int
}

// Run registers the sample users (skipping existing ones) and creates
// count historical transfers between them over the last 30 days.
func (s *Seeder) Run(ctx context.Context, count int) (Result, error) {
	var users []identity.User
	var res Result
	for _, reg := range sampleUsers {
		reg.Password = SamplePassword
		user, err := s.ids.Register(ctx, reg)
		if errors.Is(err, identity.ErrEmailTaken) {
			s.logger.Info("sample user exists, skipping", slog.String("email", reg.Email))
			continue
		}
		if err != nil {
			return res, fmt.Errorf("register %s: %w", reg.Email, err)
		}
		users = append(users, user)
		res.Users++
	}
	if len(users) < 2 {
		return res, nil
	}

	track, err := transfer.NewTrackingGenerator()
	if err != nil {
		return res, err
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	for i := 0; i < count; i++ {
		sender := users[s.rng.IntN(len(users))]
		recipient := users[s.rng.IntN(len(users))]
		for recipient.ID == sender.ID {
			recipient = users[s.rng.IntN(len(users))]
		}
		rec := s.buildRecord(sender, recipient, now, track)
		if err := s.transfers.Save(ctx, rec); err != nil {
			return res, fmt.Errorf("save transfer %d: %w", i, err)
		}
		res.Transfers++
	}
	s.logger.Info("seed complete", slog.Int("users", res.Users), slog.Int("transfers", res.Transfers))
	return res, nil
}

func (s *Seeder) buildRecord(sender, recipient identity.User, now time.Time, track transfer.TrackingGenerator) transfer.Record {
	from := countryCurrency[sender.CountryCode]
	to := countryCurrency[recipient.CountryCode]
	amount := rates.Round(50+s.rng.Float64()*1950, 2)

	rate, source := 1.0, rates.SourceIdentity
	if from != to {
		var ok bool
		rate, ok = s.table.Lookup(from, to)
		source = rates.SourceFallback
		if !ok {
			rate, source = 1.0, rates.SourceFallbackDefault
		}
	}

	fee := pricing.Fee(amount)
	createdAt := now.Add(-time.Duration(s.rng.IntN(30*24*60)) * time.Minute)
	completedAt := createdAt.Add(time.Duration(1+s.rng.IntN(240)) * time.Minute)

	return transfer.Record{
		ID:                 uuid.NewString(),
		TrackingNumber:     track(),
		Sender:             transfer.PartyRef{ID: sender.ID, Name: sender.Name, Email: sender.Email, CountryCode: sender.CountryCode},
		Recipient:          transfer.PartyRef{ID: recipient.ID, Name: recipient.Name, Email: recipient.Email, CountryCode: recipient.CountryCode},
		Amount:             amount,
		FromCurrency:       from,
		ToCurrency:         to,
		ConvertedAmount:    rates.Convert(amount, rate),
		ExchangeRate:       rates.Round(rate, 4),
		RateSource:         source,
		Fee:                fee,
		TotalAmount:        amount + fee,
		DestinationCountry: recipient.CountryCode,
		DeliveryTime:       pricing.DeliveryTime(recipient.CountryCode),
		Status:             transfer.StatusCompleted,
		CreatedAt:          createdAt,
		CompletedAt:        &completedAt,
	}
}
