package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is enforced on registration.
const MinPasswordLength = 8

// Service manages user and party lifecycle.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new identity service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Register creates a login-capable user. A party previously created by a
// transfer with the same email is claimed instead of duplicated.
func (s *Service) Register(ctx context.Context, reg Registration) (User, error) {
	if len(reg.Password) < MinPasswordLength {
		return User{}, fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	email := normalizeEmail(reg.Email)
	if email == "" {
		return User{}, errors.New("email is required")
	}
	name := strings.TrimSpace(reg.Name)
	if name == "" {
		return User{}, errors.New("name is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	country := strings.ToUpper(strings.TrimSpace(reg.CountryCode))
	if country == "" {
		country = DefaultCountryCode
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil && existing.Registered():
		return User{}, ErrEmailTaken
	case err == nil:
		existing.Name = name
		existing.CountryCode = country
		if reg.Phone != "" {
			existing.Phone = reg.Phone
		}
		existing.PasswordHash = hash
		if err := s.repo.Update(ctx, existing); err != nil {
			return User{}, fmt.Errorf("claim party: %w", err)
		}
		return existing, nil
	case !errors.Is(err, ErrNotFound):
		return User{}, fmt.Errorf("lookup user: %w", err)
	}

	user := User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		CountryCode:  country,
		Phone:        reg.Phone,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Authenticate verifies credentials and records the login time.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, ErrNotFound) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, err
	}
	if !user.Registered() {
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	if err := s.repo.TouchLogin(ctx, user.ID, now); err != nil {
		return User{}, fmt.Errorf("record login: %w", err)
	}
	user.LastLogin = &now
	return user, nil
}

// ResolveParty returns the user owning p.Email, creating one when absent.
// Parties without an email are always created fresh. Two concurrent calls
// for a new email race; the loser gets ErrEmailTaken from the store.
func (s *Service) ResolveParty(ctx context.Context, p Party) (User, error) {
	email := normalizeEmail(p.Email)
	if email != "" {
		user, err := s.repo.FindByEmail(ctx, email)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return User{}, fmt.Errorf("lookup party: %w", err)
		}
	}

	user := User{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(p.Name),
		Email:       email,
		CountryCode: strings.ToUpper(strings.TrimSpace(p.Country)),
		Phone:       p.Phone,
		CreatedAt:   s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, fmt.Errorf("create party: %w", err)
	}
	return user, nil
}

// Get returns the user with id.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateProfile applies the non-nil fields of upd.
func (s *Service) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	// Blank values keep the stored ones.
	if upd.Name != nil {
		if name := strings.TrimSpace(*upd.Name); name != "" {
			user.Name = name
		}
	}
	if upd.CountryCode != nil {
		if country := strings.ToUpper(strings.TrimSpace(*upd.CountryCode)); country != "" {
			user.CountryCode = country
		}
	}
	if upd.Phone != nil {
		user.Phone = *upd.Phone
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
