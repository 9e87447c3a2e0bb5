package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/vtorprice/exchange-api/internal/core/domain"
	"github.com/vtorprice/exchange-api/internal/core/ports"
)

const tokenTTL = 30 * 24 * time.Hour

// AuthService implements phone-plus-code login. A login code is issued per
// request, checked once and cleared; sessions are stateless JWTs after that.
type AuthService struct {
	users  ports.UserRepository
	bus    *Bus
	secret []byte
	log    zerolog.Logger
}

func NewAuthService(users ports.UserRepository, bus *Bus, secret []byte, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, bus: bus, secret: secret, log: log}
}

// RequestCode issues a fresh login code for the phone, creating the user on
// first contact. The code is returned to the caller for delivery; this
// service does not send SMS.
func (s *AuthService) RequestCode(ctx context.Context, phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", fmt.Errorf("empty phone: %w", domain.ErrUnauthorized)
	}

	code, err := loginCode()
	if err != nil {
		return "", err
	}

	user, err := s.users.GetByPhone(ctx, phone)
	if errors.Is(err, domain.ErrNotFound) {
		user, err = s.users.Create(ctx, domain.User{
			Phone:  phone,
			Role:   domain.RoleCompanyAdmin,
			Status: domain.UserNotVerified,
			Code:   code,
		})
		if err != nil {
			return "", err
		}
		s.log.Info().Int64("user_id", user.ID).Msg("user registered")
		return code, nil
	}
	if err != nil {
		return "", err
	}

	user.Code = code
	if err := s.users.Update(ctx, user); err != nil {
		return "", err
	}
	return code, nil
}

// Login checks the code, clears it and returns a signed token. A used or
// wrong code is unauthorized; codes are single-use.
func (s *AuthService) Login(ctx context.Context, phone, code string) (string, domain.User, error) {
	user, err := s.users.GetByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.User{}, domain.ErrUnauthorized
		}
		return "", domain.User{}, err
	}
	if user.Status == domain.UserBlocked {
		return "", domain.User{}, domain.ErrUnauthorized
	}
	if user.Code == "" || user.Code != code {
		return "", domain.User{}, domain.ErrUnauthorized
	}

	user.Code = ""
	if err := s.users.Update(ctx, user); err != nil {
		return "", domain.User{}, err
	}

	token, err := s.signToken(user)
	if err != nil {
		return "", domain.User{}, err
	}

	s.bus.Publish(ctx, UserLoggedIn{User: user})
	return token, user, nil
}

// Logout only records the observation; tokens stay valid until expiry.
func (s *AuthService) Logout(ctx context.Context, user domain.User) {
	s.bus.Publish(ctx, UserLoggedOut{User: user})
}

// Authenticate resolves a bearer token to its user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.User{}, domain.ErrUnauthorized
	}

	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return domain.User{}, domain.ErrUnauthorized
	}

	var userID int64
	if _, err := fmt.Sscanf(claims.Subject, "%d", &userID); err != nil {
		return domain.User{}, domain.ErrUnauthorized
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.ErrUnauthorized
		}
		return domain.User{}, err
	}
	if user.Status == domain.UserBlocked {
		return domain.User{}, domain.ErrUnauthorized
	}
	return user, nil
}

func (s *AuthService) signToken(user domain.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", user.ID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// loginCode draws four decimal digits from the system entropy source.
func loginCode() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate login code: %w", err)
	}
	digits := make([]byte, 4)
	for i, b := range buf {
		digits[i] = '0' + b%10
	}
	return string(digits), nil
}
