package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/cookieauth/pkg/jwtx"
)

// InitTokens builds the HS256 signer every session token is issued and
// verified with.
//
// The secret is process-wide and static. Rotating it invalidates every
// outstanding session, since there is no key id to fall back on.
func InitTokens(cfg Config, logger *slog.Logger) (*jwtx.HS256, error) {
	tokens, err := jwtx.NewHS256([]byte(cfg.JWTSecret), cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token signer: %w", err)
	}

	logger.Info("token signer ready",
		"algorithm", tokens.Alg(),
		"issuer", cfg.Issuer,
		"access_ttl", jwtx.AccessTokenTTL,
		"refresh_ttl", jwtx.RefreshTokenTTL,
	)
	return tokens, nil
}
