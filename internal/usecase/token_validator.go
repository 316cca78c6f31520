package usecase

import (
	"context"
	"log/slog"

	"tour-booking/internal/domain/user"
	"tour-booking/internal/pkg/errs"
	"tour-booking/internal/pkg/jwt"
	"tour-booking/internal/usecase/queries"

	"firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
)

var ErrInvalidIDToken = errs.NewKind("invalid or expired token", errs.ErrUnauthenticated)

// TokenValidator provides token validation for middleware
type TokenValidator interface {
	ValidateToken(ctx context.Context, tokenString string) (uuid.UUID, user.Role, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{
		jwtService: jwtService,
	}
}

func (t *tokenValidatorImpl) ValidateToken(_ context.Context, tokenString string) (uuid.UUID, user.Role, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return uuid.Nil, "", err
	}

	role, err := user.NewRole(claims.Role)
	if err != nil {
		return uuid.Nil, "", err
	}

	return claims.UserID, role, nil
}

// IDTokenVerifier is satisfied by *auth.Client.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type firebaseTokenValidator struct {
	verifier IDTokenVerifier
	users    queries.UserQueries
}

// NewFirebaseTokenValidator verifies Firebase ID tokens and resolves the
// local account linked to the token's uid. The role always comes from the
// local account, never from token claims.
func NewFirebaseTokenValidator(verifier IDTokenVerifier, users queries.UserQueries) TokenValidator {
	return &firebaseTokenValidator{
		verifier: verifier,
		users:    users,
	}
}

func (t *firebaseTokenValidator) ValidateToken(ctx context.Context, tokenString string) (uuid.UUID, user.Role, error) {
	token, err := t.verifier.VerifyIDToken(ctx, tokenString)
	if err != nil {
		slog.Debug("firebase id token rejected", "error", err.Error())
		return uuid.Nil, "", ErrInvalidIDToken
	}

	u, err := t.users.ResolveFirebaseUser(ctx, token.UID)
	if err != nil {
		return uuid.Nil, "", err
	}

	role, err := user.NewRole(u.Role)
	if err != nil {
		return uuid.Nil, "", err
	}

	return u.ID, role, nil
}
