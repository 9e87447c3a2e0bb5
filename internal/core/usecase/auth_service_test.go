package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/vtorprice/exchange-api/internal/core/domain"
)

func newAuth(users *stubUserRepo, actions *stubActionRepo) *AuthService {
	bus := NewBus(zerolog.Nop(), NewRecorder(actions))
	return NewAuthService(users, bus, []byte("test-secret"), zerolog.Nop())
}

func TestRequestCodeRegistersNewUser(t *testing.T) {
	var created domain.User
	users := &stubUserRepo{createFn: func(_ context.Context, u domain.User) (domain.User, error) {
		u.ID = 1
		created = u
		return u, nil
	}}
	svc := newAuth(users, &stubActionRepo{})

	code, err := svc.RequestCode(context.Background(), "+79990001122")
	if err != nil {
		t.Fatal(err)
	}
	if len(code) != 4 {
		t.Fatalf("expected four-digit code, got %q", code)
	}
	if created.Phone != "+79990001122" || created.Code != code {
		t.Fatalf("unexpected stored user: %+v", created)
	}
	if created.Role != domain.RoleCompanyAdmin {
		t.Fatalf("first contact must register a company admin, got role %d", created.Role)
	}
}

func TestLoginConsumesCodeAndRecordsEvent(t *testing.T) {
	user := domain.User{ID: 4, Phone: "+7999", Code: "1234", Status: domain.UserVerified}
	var saved domain.User
	users := &stubUserRepo{
		getByPhoneFn: func(_ context.Context, _ string) (domain.User, error) { return user, nil },
		updateFn: func(_ context.Context, u domain.User) error {
			saved = u
			return nil
		},
		getFn: func(_ context.Context, id int64) (domain.User, error) {
			u := user
			u.ID = id
			u.Code = ""
			return u, nil
		},
	}
	actions := &stubActionRepo{}
	svc := newAuth(users, actions)

	token, got, err := svc.Login(context.Background(), "+7999", "1234")
	if err != nil {
		t.Fatal(err)
	}
	if token == "" || got.ID != 4 {
		t.Fatalf("unexpected login result: %q %+v", token, got)
	}
	if saved.Code != "" {
		t.Fatal("login code must be cleared after use")
	}
	if len(actions.records) != 1 || actions.records[0].Action != domain.ActionLogin {
		t.Fatalf("expected a login record, got %+v", actions.records)
	}

	back, err := svc.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("token round trip failed: %v", err)
	}
	if back.ID != 4 {
		t.Fatalf("unexpected authenticated user: %+v", back)
	}
}

func TestLoginRejectsWrongCode(t *testing.T) {
	users := &stubUserRepo{getByPhoneFn: func(_ context.Context, _ string) (domain.User, error) {
		return domain.User{ID: 4, Code: "1234"}, nil
	}}
	svc := newAuth(users, &stubActionRepo{})

	_, _, err := svc.Login(context.Background(), "+7999", "9999")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginRejectsBlockedUser(t *testing.T) {
	users := &stubUserRepo{getByPhoneFn: func(_ context.Context, _ string) (domain.User, error) {
		return domain.User{ID: 4, Code: "1234", Status: domain.UserBlocked}, nil
	}}
	svc := newAuth(users, &stubActionRepo{})

	_, _, err := svc.Login(context.Background(), "+7999", "1234")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	svc := newAuth(&stubUserRepo{}, &stubActionRepo{})

	for _, token := range []string{"", "   ", "not.a.token"} {
		if _, err := svc.Authenticate(context.Background(), token); !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("token %q: expected unauthorized, got %v", token, err)
		}
	}
}

func TestLogoutRecordsObservation(t *testing.T) {
	actions := &stubActionRepo{}
	svc := newAuth(&stubUserRepo{}, actions)

	svc.Logout(context.Background(), domain.User{ID: 4})
	if len(actions.records) != 1 || actions.records[0].Action != domain.ActionLogout {
		t.Fatalf("expected a logout record, got %+v", actions.records)
	}
}
