package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/model"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrUnknownRole  = errors.New("unknown role")
)

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Parser verifies access tokens issued by the platform auth service.
type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

func (p *Parser) Parse(token string) (model.Principal, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return model.Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return model.Principal{}, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.Principal{}, fmt.Errorf("%w: subject is not a uuid", ErrInvalidToken)
	}

	role := model.Role(strings.ToLower(strings.TrimSpace(claims.Role)))
	switch role {
	case model.RoleConsumer, model.RoleProvider, model.RoleAdmin:
	default:
		return model.Principal{}, ErrUnknownRole
	}

	return model.Principal{UserID: userID, Role: role}, nil
}

// Issue signs a token for the given principal. Used by tests and local tooling.
func (p *Parser) Issue(principal model.Principal, claims jwt.RegisteredClaims) (string, error) {
	claims.Subject = principal.UserID.String()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             string(principal.Role),
		RegisteredClaims: claims,
	})
	return token.SignedString(p.secret)
}
