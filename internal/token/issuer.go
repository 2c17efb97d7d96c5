package token

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/priya/course-platform/internal/domain"
)

// Issuer creates and verifies the three token classes used by the platform:
// activation, access and refresh. Each class signs with its own HMAC secret
// so a leaked secret for one class cannot forge tokens of another.
type Issuer struct {
	activationSecret []byte
	accessSecret     []byte
	refreshSecret    []byte
	accessExpire     time.Duration
	refreshExpire    time.Duration
}

func NewIssuer(activationSecret, accessSecret, refreshSecret string, accessExpire, refreshExpire time.Duration) *Issuer {
	return &Issuer{
		activationSecret: []byte(activationSecret),
		accessSecret:     []byte(accessSecret),
		refreshSecret:    []byte(refreshSecret),
		accessExpire:     accessExpire,
		refreshExpire:    refreshExpire,
	}
}

const activationExpire = 5 * time.Minute

type activationClaims struct {
	User domain.PendingUser `json:"user"`
	Code string             `json:"activationCode"`
	jwt.RegisteredClaims
}

type sessionClaims struct {
	jwt.RegisteredClaims
}

// IssueActivationToken binds a pending identity and a 4-digit code into a
// short-lived signed token. The code travels out-of-band (email); the token
// goes to the client. Nothing is persisted until both come back together.
func (i *Issuer) IssueActivationToken(user domain.PendingUser) (string, string, error) {
	code, err := activationCode()
	if err != nil {
		return "", "", err
	}

	now := time.Now()
	claims := activationClaims{
		User: user,
		Code: code,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(activationExpire)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.activationSecret)
	if err != nil {
		return "", "", err
	}
	return signed, code, nil
}

// VerifyActivationToken returns the embedded pending identity and code.
func (i *Issuer) VerifyActivationToken(tokenString string) (*domain.PendingUser, string, error) {
	var claims activationClaims
	if err := i.parse(tokenString, &claims, i.activationSecret); err != nil {
		return nil, "", err
	}
	return &claims.User, claims.Code, nil
}

// IssueAccessToken signs a short-lived token carrying only the user id.
func (i *Issuer) IssueAccessToken(userID string) (string, error) {
	return i.issueSession(userID, i.accessSecret, i.accessExpire)
}

// IssueRefreshToken signs a longer-lived token carrying only the user id.
func (i *Issuer) IssueRefreshToken(userID string) (string, error) {
	return i.issueSession(userID, i.refreshSecret, i.refreshExpire)
}

// VerifyAccessToken returns the user id bound to a valid access token.
func (i *Issuer) VerifyAccessToken(tokenString string) (string, error) {
	return i.verifySession(tokenString, i.accessSecret)
}

// VerifyRefreshToken returns the user id bound to a valid refresh token.
func (i *Issuer) VerifyRefreshToken(tokenString string) (string, error) {
	return i.verifySession(tokenString, i.refreshSecret)
}

func (i *Issuer) issueSession(userID string, secret []byte, expire time.Duration) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(expire)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (i *Issuer) verifySession(tokenString string, secret []byte) (string, error) {
	var claims sessionClaims
	if err := i.parse(tokenString, &claims, secret); err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", domain.ErrTokenInvalid
	}
	return claims.Subject, nil
}

// parse normalizes library errors into the domain taxonomy, keeping the
// expired case distinct so clients can tell a stale token from a forged one.
func (i *Issuer) parse(tokenString string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.ErrTokenExpired
		}
		return domain.ErrTokenInvalid
	}
	if !token.Valid {
		return domain.ErrTokenInvalid
	}
	return nil
}

// activationCode draws a 4-digit code uniformly from [1000, 9999].
func activationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+1000), nil
}
