package admin

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrLoginDisabled      = errors.New("admin login is disabled")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid admin token")
)

const tokenIssuer = "logoassist"

type Claims struct {
	jwt.RegisteredClaims
}

// Auth checks the configured admin credential and issues session tokens.
type Auth struct {
	Username     string
	PasswordHash string
	SigningKey   []byte
	Now          func() time.Time
}

func (a Auth) Enabled() bool {
	return a.Username != "" && a.PasswordHash != "" && len(a.SigningKey) > 0
}

// Login verifies the credential and returns a token valid for ttl.
func (a Auth) Login(username, password string, ttl time.Duration) (string, error) {
	if !a.Enabled() {
		return "", ErrLoginDisabled
	}

	// compare the hash even on a wrong username to keep timing flat
	hashErr := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password))
	if username != a.Username || hashErr != nil {
		return "", ErrInvalidCredentials
	}

	now := a.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}})

	return tok.SignedString(a.SigningKey)
}

func (a Auth) Verify(token string) (*Claims, error) {
	if !a.Enabled() {
		return nil, ErrLoginDisabled
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return a.SigningKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithSubject(a.Username),
		jwt.WithTimeFunc(a.now),
	)

	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	return claims, nil
}

func (a Auth) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("empty password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}
