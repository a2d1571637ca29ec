// Package auth issues and verifies the platform's bearer tokens.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/techelevate/platform/internal/clock"
	"github.com/techelevate/platform/internal/common"
	"github.com/techelevate/platform/internal/server/identity"
)

// tokenIDBytes is the entropy of a token id: 128 bits.
const tokenIDBytes = 16

// DefaultTTL is the access token lifetime when none is configured.
// Tokens are never renewed; clients log in again after expiry.
const DefaultTTL = time.Hour

// Claims is the JWT payload: registered claims plus the account role.
// Subject holds the decimal account id and ID the unique token id.
type Claims struct {
	jwt.RegisteredClaims
	Role identity.Role `json:"role"`
}

// Claim is the verified content of a token.
type Claim struct {
	Subject   identity.Subject
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService signs and validates HS256 tokens. It does not consult the
// revocation ledger.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	clock  clock.Clock
}

func NewTokenService(secret []byte, issuer string, ttl time.Duration, c clock.Clock) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if c == nil {
		c = clock.Real()
	}
	return &TokenService{secret: secret, issuer: issuer, ttl: ttl, clock: c}
}

// TTL is the default lifetime used by IssueDefault.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a fresh token for subject valid for ttl.
func (s *TokenService) Issue(subject identity.Subject, ttl time.Duration) (string, *Claim, error) {
	if !subject.Role.Valid() {
		return "", nil, fmt.Errorf("%w: unknown role %q", common.ErrValidation, subject.Role)
	}

	tokenID, err := common.MakeRandHexString(tokenIDBytes)
	if err != nil {
		return "", nil, fmt.Errorf("token id: %w", err)
	}

	// JWT dates have second precision.
	now := s.clock.Now().Truncate(time.Second)
	claim := &Claim{
		Subject:   subject,
		TokenID:   tokenID,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   strconv.FormatInt(subject.ID, 10),
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(claim.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claim.ExpiresAt),
		},
		Role: subject.Role,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claim, nil
}

// IssueDefault issues a token with the configured TTL.
func (s *TokenService) IssueDefault(subject identity.Subject) (string, *Claim, error) {
	return s.Issue(subject, s.ttl)
}

// Validate verifies the signature and expiry of tokenString. It returns
// common.ErrExpiredCredential once now >= exp and
// common.ErrMalformedCredential for everything else that is wrong.
func (s *TokenService) Validate(tokenString string) (*Claim, error) {
	claims := &Claims{}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrExpiredCredential
		}
		return nil, common.ErrMalformedCredential
	}

	if !claims.Role.Valid() || claims.ID == "" {
		return nil, common.ErrMalformedCredential
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return nil, common.ErrMalformedCredential
	}

	claim := &Claim{
		Subject:   identity.Subject{Role: claims.Role, ID: id},
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		claim.IssuedAt = claims.IssuedAt.Time
	}
	return claim, nil
}
