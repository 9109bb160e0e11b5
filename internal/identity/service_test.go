package identity

import (
	"context"
	"errors"
	"testing"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	user, err := svc.Register(ctx, Registration{Name: "Ada Obi", Email: " Ada@Example.com ", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "ada@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.CountryCode != DefaultCountryCode {
		t.Fatalf("expected default country, got %s", user.CountryCode)
	}

	authed, err := svc.Authenticate(ctx, "ADA@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if authed.LastLogin == nil {
		t.Fatalf("expected last login to be recorded")
	}

	stored, err := svc.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.LastLogin == nil {
		t.Fatalf("expected persisted last login")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Register(ctx, Registration{Name: "A", Email: "a@example.com", Password: "password1"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := svc.Register(ctx, Registration{Name: "B", Email: "a@example.com", Password: "password2"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	if _, err := svc.Register(context.Background(), Registration{Name: "A", Email: "a@example.com", Password: "short"}); err == nil {
		t.Fatalf("expected short password error")
	}
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()
	if _, err := svc.Register(ctx, Registration{Name: "A", Email: "a@example.com", Password: "password1"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "a@example.com", "password2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@example.com", "password1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestResolvePartyFindsOrCreates(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	first, err := svc.ResolveParty(ctx, Party{Name: "Kofi", Country: "gh", Email: "kofi@example.com"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if first.CountryCode != "GH" {
		t.Fatalf("expected upper-cased country, got %s", first.CountryCode)
	}

	again, err := svc.ResolveParty(ctx, Party{Name: "Kofi A.", Country: "GH", Email: "KOFI@example.com"})
	if err != nil {
		t.Fatalf("resolve again: %v", err)
	}
	if again.ID != first.ID {
		t.Fatalf("expected same party, got %s and %s", first.ID, again.ID)
	}

	anon1, _ := svc.ResolveParty(ctx, Party{Name: "Walk-in", Country: "US"})
	anon2, _ := svc.ResolveParty(ctx, Party{Name: "Walk-in", Country: "US"})
	if anon1.ID == anon2.ID {
		t.Fatalf("parties without email must not be merged")
	}
}

func TestRegisterClaimsTransferParty(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	party, err := svc.ResolveParty(ctx, Party{Name: "Mina", Country: "IN", Email: "mina@example.com"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "mina@example.com", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unregistered party must not authenticate, got %v", err)
	}

	user, err := svc.Register(ctx, Registration{Name: "Mina R", Email: "mina@example.com", Password: "password1", CountryCode: "in"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID != party.ID {
		t.Fatalf("expected party to be claimed")
	}
	if _, err := svc.Authenticate(ctx, "mina@example.com", "password1"); err != nil {
		t.Fatalf("authenticate after claim: %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()
	user, err := svc.Register(ctx, Registration{Name: "A", Email: "a@example.com", Password: "password1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	name, country := "Alice", "gb"
	updated, err := svc.UpdateProfile(ctx, user.ID, ProfileUpdate{Name: &name, CountryCode: &country})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Alice" || updated.CountryCode != "GB" {
		t.Fatalf("unexpected profile %+v", updated.Profile())
	}

	if _, err := svc.UpdateProfile(ctx, "missing", ProfileUpdate{Name: &name}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBlankNamesAreNotStored(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Register(ctx, Registration{Name: "   ", Email: "b@example.com", Password: "password1"}); err == nil {
		t.Fatalf("expected blank name to be rejected")
	}

	user, err := svc.Register(ctx, Registration{Name: "Bola", Email: "b@example.com", Password: "password1", CountryCode: "NG"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	blank, empty := "  ", ""
	updated, err := svc.UpdateProfile(ctx, user.ID, ProfileUpdate{Name: &blank, CountryCode: &empty})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Bola" || updated.CountryCode != "NG" {
		t.Fatalf("blank update overwrote profile: %+v", updated.Profile())
	}
}
