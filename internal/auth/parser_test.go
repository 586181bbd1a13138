package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/model"
)

func TestParseRoundTrip(t *testing.T) {
	parser := NewParser("secret")
	principal := model.Principal{UserID: uuid.New(), Role: model.RoleProvider}

	token, err := parser.Issue(principal, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	require.NoError(t, err)

	got, err := parser.Parse(token)
	require.NoError(t, err)
	require.Equal(t, principal, got)
}

func TestParseRejectsForeignSignature(t *testing.T) {
	token, err := NewParser("other").Issue(model.Principal{UserID: uuid.New(), Role: model.RoleConsumer}, jwt.RegisteredClaims{})
	require.NoError(t, err)

	_, err = NewParser("secret").Parse(token)
	require.True(t, errors.Is(err, ErrInvalidToken))
}

func TestParseRejectsExpiredToken(t *testing.T) {
	parser := NewParser("secret")
	token, err := parser.Issue(model.Principal{UserID: uuid.New(), Role: model.RoleConsumer}, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})
	require.NoError(t, err)

	_, err = parser.Parse(token)
	require.True(t, errors.Is(err, ErrInvalidToken))
}

func TestParseRejectsUnknownRole(t *testing.T) {
	parser := NewParser("secret")
	token, err := parser.Issue(model.Principal{UserID: uuid.New(), Role: model.Role("auditor")}, jwt.RegisteredClaims{})
	require.NoError(t, err)

	_, err = parser.Parse(token)
	require.ErrorIs(t, err, ErrUnknownRole)
}
