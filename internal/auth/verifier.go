package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// Identity is the caller resolved from a valid access token. UserUID is an
// opaque, stable key; its format is the account store's concern.
type Identity struct {
	UserUID string
	UserID  string
}

// Verifier resolves a raw credential to an Identity. ok is false for any
// missing, malformed, expired or forged credential.
type Verifier interface {
	Verify(ctx context.Context, credential string) (id Identity, ok bool)
}

// JWTVerifier checks HS256 access tokens signed with a shared secret.
type JWTVerifier struct {
	secret []byte
	issuer string
	logger *slog.Logger
}

// NewJWTVerifier builds a verifier. An empty issuer skips the iss check.
func NewJWTVerifier(secret, issuer string, logger *slog.Logger) *JWTVerifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &JWTVerifier{secret: []byte(secret), issuer: issuer, logger: logger}
}

// Verify implements Verifier. Rejections are logged at debug level only.
func (v *JWTVerifier) Verify(ctx context.Context, credential string) (Identity, bool) {
	token, err := extractToken(credential)
	if err != nil {
		v.logger.DebugContext(ctx, "credential rejected", slog.Any("reason", err))
		return Identity{}, false
	}
	if len(v.secret) == 0 {
		v.logger.DebugContext(ctx, "credential rejected", slog.String("reason", "no signing secret configured"))
		return Identity{}, false
	}

	claims, err := parse(token, string(v.secret), v.issuer)
	if err != nil {
		v.logger.DebugContext(ctx, "credential rejected", slog.Any("reason", err))
		return Identity{}, false
	}

	uid := strings.TrimSpace(claims.UserUID)
	if uid == "" {
		v.logger.DebugContext(ctx, "credential rejected", slog.String("reason", "missing userUid claim"))
		return Identity{}, false
	}

	return Identity{UserUID: uid, UserID: claims.UserID}, true
}

// extractToken accepts "Bearer <token>" as well as a bare token.
func extractToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing credential")
	}
	parts := strings.Fields(header)
	switch {
	case len(parts) == 1:
		return parts[0], nil
	case len(parts) == 2 && strings.EqualFold(parts[0], "Bearer"):
		return parts[1], nil
	default:
		return "", errors.New("invalid authorization header format")
	}
}
