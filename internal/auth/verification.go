// Package auth signs and checks the tokens embedded in email verification
// links, so a resumed session can trust the email it is handed.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/atomist-global-seeds/blockstack-browser/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

const verificationSubject = "email-verification"

// Claims carries the verified email on top of the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// GenerateVerificationToken returns an HS256 token binding email for ttl.
func GenerateVerificationToken(email string, secretKey []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   verificationSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
	})

	return token.SignedString(secretKey)
}

// EmailFromVerificationToken validates tokenString and returns the email it
// binds. Expired tokens yield common.ErrTokenExpired; anything else that
// fails validation yields common.ErrInvalidToken.
func EmailFromVerificationToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithSubject(verificationSubject))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.Email == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Email, nil
}

// Verifier checks that a verification token was issued for a given email.
type Verifier struct {
	secret []byte
	ttl    time.Duration
}

func NewVerifier(secret string, ttl time.Duration) *Verifier {
	return &Verifier{secret: []byte(secret), ttl: ttl}
}

// Issue returns a token for email.
func (v *Verifier) Issue(email string) (string, error) {
	return GenerateVerificationToken(email, v.secret, v.ttl)
}

// Verify returns nil when token is valid and was issued for email. Emails
// compare case-insensitively.
func (v *Verifier) Verify(email, token string) error {
	got, err := EmailFromVerificationToken(token, v.secret)
	if err != nil {
		return err
	}
	if !strings.EqualFold(got, email) {
		return common.ErrInvalidToken
	}
	return nil
}
