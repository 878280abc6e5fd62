// Package app composes the library from configuration: store, mailer, user
// directory, session issuer, authenticator. A host that wants to wire the
// pieces differently can ignore it and construct them directly.
package app

import (
	"fmt"

	"github.com/templui/magiclink"
	"github.com/templui/magiclink/config"
	"github.com/templui/magiclink/directory"
	"github.com/templui/magiclink/logger"
	"github.com/templui/magiclink/mailer"
	"github.com/templui/magiclink/store/sqlstore"
)

type App struct {
	Cfg      *config.Config
	Store    *sqlstore.SQL
	Auth     *magiclink.Authenticator
	Sessions *magiclink.SessionIssuer
}

func New(cfg *config.Config) (*App, error) {
	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)

	// Initialize database-backed store (runs migrations)
	st, err := sqlstore.Open(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	// Development without an API key falls back to logging links instead of
	// sending them.
	var mail mailer.Mailer
	if cfg.ResendAPIKey == "" && cfg.IsDevelopment() {
		mail = mailer.NewLog()
	} else {
		mail = mailer.NewResend(cfg.ResendAPIKey, cfg.EmailFrom)
	}

	sessions := magiclink.NewSessionIssuer(cfg.JWTSecret, cfg.AppName, cfg.AppURL, cfg.SessionExpiry)

	auth := magiclink.New(st, mail, directory.NewSQL(st.DB()), sessions, magiclink.Config{
		AppName:         cfg.AppName,
		AppURL:          cfg.AppURL,
		TokenExpiry:     cfg.TokenExpiry,
		UsedRetention:   cfg.UsedRetention,
		MaxAttempts:     cfg.MaxAttempts,
		RateLimitWindow: cfg.RateLimitWindow,
	})

	return &App{
		Cfg:      cfg,
		Store:    st,
		Auth:     auth,
		Sessions: sessions,
	}, nil
}

func (a *App) Close() error {
	return a.Store.Close()
}
