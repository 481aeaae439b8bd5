package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/fmsilvestri/condobase/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims identify the caller: subject is the user id, cid the condominium.
type Claims struct {
	CondominiumID string `json:"cid"`
	Role          string `json:"role"`
	Name          string `json:"name"`
	jwt.RegisteredClaims
}

// Principal is the verified identity carried through a request.
type Principal struct {
	UserID        uuid.UUID
	CondominiumID uuid.UUID
	Role          domain.Role
	Name          string
}

type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	clock  clockwork.Clock
}

func NewIssuer(secret, issuer string, ttl time.Duration, clock clockwork.Clock) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		clock:  clock,
	}
}

// Issue signs an HS256 token for the user.
func (i *Issuer) Issue(u *domain.User) (string, time.Time, error) {
	now := i.clock.Now()
	expiresAt := now.Add(i.ttl)

	claims := Claims{
		CondominiumID: u.CondominiumID.String(),
		Role:          string(u.Role),
		Name:          u.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify parses and validates a token. Any failure is reported as ErrInvalidToken
// wrapping the underlying reason.
func (i *Issuer) Verify(token string) (*Principal, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.clock.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	condominiumID, err := uuid.Parse(claims.CondominiumID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad condominium", ErrInvalidToken)
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	return &Principal{
		UserID:        userID,
		CondominiumID: condominiumID,
		Role:          role,
		Name:          claims.Name,
	}, nil
}
