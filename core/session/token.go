package session

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/kisanhq/kisan/core"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	tokenAudience = "Portal"
)

var nowFunc = time.Now // mockable

// Claims is the identity encoded into an issued token. Consumers treat tokens
// as opaque strings; the claims exist so each value carries its creation
// timestamp and so a rotated access token can be derived from the refresh
// token it came from. No server-side verification gates any operation.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64    `json:"oriat,omitempty"`
	TokenType    string   `json:"typ,omitempty"`
	Role         string   `json:"role,omitempty"`
	Permissions  []string `json:"perms,omitempty"`
}

func newClaims(usr User, tokenType string, expiry time.Duration, origIat ...int64) *Claims {
	now := nowFunc()
	nownix := now.Unix()

	var oriat int64
	if len(origIat) > 0 {
		oriat = origIat[0]
	} else {
		oriat = nownix
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.New().String(), // distinct per call even within one clock tick
			Issuer:    core.Conf.GetString("appName"),
			Subject:   usr.Email,
			Audience:  tokenAudience,
			ExpiresAt: now.Add(expiry).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		TokenType:    tokenType,
		Role:         usr.Role,
		Permissions:  usr.Permissions,
	}
}

// generateToken signs the claims into a compact token string.
func generateToken(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(core.Conf.GetString("secretKey")))
	return ss, errors.Wrap(err, "signing token")
}

// parseClaims decodes a token without verifying its signature or expiry.
// Stored tokens are assumed valid indefinitely; a value that does not decode
// at all is reported so callers can fall back to the in-memory identity.
func parseClaims(tokenStr string) (*Claims, error) {
	claims := new(Claims)
	if _, _, err := new(jwt.Parser).ParseUnverified(tokenStr, claims); err != nil {
		return nil, errors.Wrap(err, "parsing token")
	}
	return claims, nil
}
