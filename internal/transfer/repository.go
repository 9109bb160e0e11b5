package transfer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/remitlite/remitlite/internal/rates"
)

// ListFilter narrows List results. Zero values mean no restriction.
type ListFilter struct {
	PartyID string
	Limit   int
}

// Repository persists transfers.
type Repository interface {
	Save(ctx context.Context, rec Record) error
	Get(ctx context.Context, idOrTracking string) (Record, error)
	List(ctx context.Context, filter ListFilter) ([]Record, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed transfer repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Save inserts rec in a single statement.
func (r *PostgresRepository) Save(ctx context.Context, rec Record) error {
	_, err := r.db.Exec(ctx, `INSERT INTO transfers (id, tracking_number, sender_id, recipient_id, amount,
        from_currency, to_currency, converted_amount, exchange_rate, rate_source, fee, total_amount,
        destination_country, delivery_time, status, created_at, completed_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		rec.ID, rec.TrackingNumber, rec.Sender.ID, rec.Recipient.ID, rec.Amount,
		rec.FromCurrency, rec.ToCurrency, rec.ConvertedAmount, rec.ExchangeRate, string(rec.RateSource),
		rec.Fee, rec.TotalAmount, rec.DestinationCountry, rec.DeliveryTime, string(rec.Status),
		rec.CreatedAt.UTC(), rec.CompletedAt)
	if err != nil {
		return fmt.Errorf("insert transfer: %w", err)
	}
	return nil
}

const selectTransfers = `SELECT t.id, t.tracking_number, t.amount, t.from_currency, t.to_currency,
        t.converted_amount, t.exchange_rate, t.rate_source, t.fee, t.total_amount,
        t.destination_country, t.delivery_time,
        t.status, t.created_at, t.completed_at,
        s.id, s.name, COALESCE(s.email, ''), s.country_code, COALESCE(s.phone, ''),
        r.id, r.name, COALESCE(r.email, ''), r.country_code, COALESCE(r.phone, '')
    FROM transfers t
    JOIN users s ON s.id = t.sender_id
    JOIN users r ON r.id = t.recipient_id`

// Get fetches a transfer by row id or tracking number.
func (r *PostgresRepository) Get(ctx context.Context, idOrTracking string) (Record, error) {
	var row pgx.Row
	if id, err := uuid.Parse(idOrTracking); err == nil {
		row = r.db.QueryRow(ctx, selectTransfers+` WHERE t.id = $1`, id)
	} else {
		row = r.db.QueryRow(ctx, selectTransfers+` WHERE t.tracking_number = $1`, strings.ToUpper(idOrTracking))
	}
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

// List returns transfers newest first.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]Record, error) {
	query := selectTransfers
	args := []any{}
	if filter.PartyID != "" {
		pid, err := uuid.Parse(filter.PartyID)
		if err != nil {
			return []Record{}, nil
		}
		args = append(args, pid)
		query += ` WHERE t.sender_id = $1 OR t.recipient_id = $1`
	}
	query += ` ORDER BY t.created_at DESC, t.id`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transfers: %w", err)
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transfers: %w", err)
	}
	return out, nil
}

func scanRecord(row pgx.Row) (Record, error) {
	var (
		rec         Record
		id          uuid.UUID
		senderID    uuid.UUID
		recipientID uuid.UUID
		source      string
		status      string
		createdAt   time.Time
		completedAt *time.Time
	)
	err := row.Scan(&id, &rec.TrackingNumber, &rec.Amount, &rec.FromCurrency, &rec.ToCurrency,
		&rec.ConvertedAmount, &rec.ExchangeRate, &source, &rec.Fee, &rec.TotalAmount,
		&rec.DestinationCountry, &rec.DeliveryTime,
		&status, &createdAt, &completedAt,
		&senderID, &rec.Sender.Name, &rec.Sender.Email, &rec.Sender.CountryCode, &rec.Sender.Phone,
		&recipientID, &rec.Recipient.Name, &rec.Recipient.Email, &rec.Recipient.CountryCode, &rec.Recipient.Phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("scan transfer: %w", err)
	}
	rec.ID = id.String()
	rec.Sender.ID = senderID.String()
	rec.Recipient.ID = recipientID.String()
	rec.RateSource = rates.Source(source)
	rec.Status = Status(status)
	rec.CreatedAt = createdAt.UTC()
	if completedAt != nil {
		t := completedAt.UTC()
		rec.CompletedAt = &t
	}
	return rec, nil
}
