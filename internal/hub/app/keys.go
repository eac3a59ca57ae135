package app

import (
	"crypto/rand"
	"fmt"
	"log/slog"

	"github.com/dchubs/hub/pkg/jwtx"
)

// Keys is the secret material loaded once at startup.
type Keys struct {
	Signing jwtx.Keys
	Sealing []byte

	// Ephemeral is set when at least one secret was generated for this
	// process only.
	Ephemeral bool
}

// InitKeys loads the signing secrets and the sealing key from cfg.
//
// In dev, missing secrets are replaced by random ones. Every token minted
// and every value sealed with them becomes unreadable when the process
// restarts. Outside dev Config.Validate has already rejected missing secrets.
func InitKeys(cfg Config, logger *slog.Logger) (Keys, error) {
	var k Keys

	load := func(name string, configured string) ([]byte, error) {
		if configured != "" {
			return []byte(configured), nil
		}
		if !cfg.IsDev() {
			return nil, fmt.Errorf("%s is not set", name)
		}

		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("generate ephemeral %s: %w", name, err)
		}
		k.Ephemeral = true
		logger.Warn("using ephemeral secret", "name", name)
		return buf, nil
	}

	var err error
	if k.Signing.Access, err = load("HUB_ACCESS_SECRET", cfg.AccessSecret.Reveal()); err != nil {
		return Keys{}, err
	}
	if k.Signing.Refresh, err = load("HUB_REFRESH_SECRET", cfg.RefreshSecret.Reveal()); err != nil {
		return Keys{}, err
	}
	if k.Signing.Session, err = load("HUB_SESSION_SECRET", cfg.SessionSecret.Reveal()); err != nil {
		return Keys{}, err
	}
	if k.Sealing, err = load("HUB_SEALING_KEY", cfg.SealingKey.Reveal()); err != nil {
		return Keys{}, err
	}

	if err := k.Signing.Validate(); err != nil {
		return Keys{}, err
	}
	if len(k.Sealing) < jwtx.MinSecretLength {
		return Keys{}, fmt.Errorf("HUB_SEALING_KEY needs at least %d bytes", jwtx.MinSecretLength)
	}

	if k.Ephemeral {
		logger.Warn("tokens and sealed values will not survive a restart")
	}
	return k, nil
}
