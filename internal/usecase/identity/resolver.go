package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"expo-ledger/internal/pkg/config"
	"expo-ledger/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidPayload: the scanned data is not a badge token at all.
	ErrInvalidPayload = errs.New("payload is not a recognizable badge token")
	// ErrVerificationFailed: the token parsed but its signature, issuer or
	// validity window did not check out.
	ErrVerificationFailed = errs.New("badge verification failed")
)

// Identity is the durable attendee identity carried by a badge.
type Identity struct {
	AttendeeID  uuid.UUID
	DisplayName string
	EventID     uuid.UUID
}

// Resolver turns a scanned payload into an identity or a verification
// error. Resolution is pure: no ledger state is touched, and the same
// payload always resolves to the same identity.
type Resolver interface {
	Resolve(ctx context.Context, payload string) (*Identity, error)
}

type badgeClaims struct {
	jwt.RegisteredClaims
	DisplayName string `json:"name"`
	EventID     string `json:"evt"`
}

// BadgeResolver verifies HS256-signed badge payloads minted by the
// registration system.
type BadgeResolver struct {
	secret []byte
	issuer string
}

func NewBadgeResolver(cfg config.BadgeConfig) Resolver {
	return &BadgeResolver{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
	}
}

func (r *BadgeResolver) Resolve(_ context.Context, payload string) (*Identity, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, ErrInvalidPayload
	}

	var claims badgeClaims
	_, err := jwt.ParseWithClaims(payload, &claims,
		func(_ *jwt.Token) (any, error) { return r.secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(r.issuer),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, errs.Mark(err, ErrInvalidPayload)
		}
		return nil, errs.Mark(err, ErrVerificationFailed)
	}

	attendeeID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidPayload)
	}
	eventID, err := uuid.Parse(claims.EventID)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidPayload)
	}

	name := strings.TrimSpace(claims.DisplayName)
	if name == "" {
		name = "Attendee " + claims.Subject[:8]
	}

	return &Identity{
		AttendeeID:  attendeeID,
		DisplayName: name,
		EventID:     eventID,
	}, nil
}

// SignBadge mints a badge payload for the given identity. Used by the
// registration tooling and by tests.
func SignBadge(cfg config.BadgeConfig, id Identity, issuedAt time.Time) (string, error) {
	claims := badgeClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   cfg.Issuer,
			Subject:  id.AttendeeID.String(),
			IssuedAt: jwt.NewNumericDate(issuedAt),
		},
		DisplayName: id.DisplayName,
		EventID:     id.EventID.String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}
