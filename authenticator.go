package magiclink

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/templui/magiclink/directory"
	"github.com/templui/magiclink/mailer"
	"github.com/templui/magiclink/model"
	"github.com/templui/magiclink/store"
	"github.com/templui/magiclink/validation"
)

const (
	// DefaultTokenExpiry is the default for Config.TokenExpiry.
	DefaultTokenExpiry = 15 * time.Minute

	// DefaultUsedRetention is the default for Config.UsedRetention.
	DefaultUsedRetention = 300 * time.Second

	// DefaultMaxAttempts is the default for Config.MaxAttempts.
	DefaultMaxAttempts = 3

	// DefaultRateLimitWindow is the default for Config.RateLimitWindow.
	DefaultRateLimitWindow = 15 * time.Minute
)

// Config holds Authenticator configuration.
// A zero value for any field falls back to its default.
type Config struct {
	// AppName is used in the email templates.
	AppName string

	// AppURL is the base URL the verification link is built on.
	AppURL string

	// TokenExpiry tells how long an unverified link remains valid.
	TokenExpiry time.Duration

	// UsedRetention tells how long a consumed link is kept for reuse
	// detection and forensics.
	UsedRetention time.Duration

	// MaxAttempts is the number of sends allowed per (email, origin IP)
	// within RateLimitWindow.
	MaxAttempts int

	// RateLimitWindow is the decay window for the attempt counter.
	RateLimitWindow time.Duration
}

// Authenticator orchestrates the send/verify protocol. It holds no mutable
// state of its own; all cross-request coordination goes through the store,
// so it is safe for concurrent use.
type Authenticator struct {
	pending  *PendingLinkStore
	limiter  *RateLimiter
	audit    *AuditLog
	mail     mailer.Mailer
	users    directory.Directory
	sessions *SessionIssuer
	cfg      Config

	now func() time.Time
}

// New creates an Authenticator.
// This function panics if any collaborator is nil.
func New(kv store.Store, mail mailer.Mailer, users directory.Directory, sessions *SessionIssuer, cfg Config) *Authenticator {
	if kv == nil {
		panic("kv store must be provided")
	}
	if mail == nil {
		panic("mailer must be provided")
	}
	if users == nil {
		panic("user directory must be provided")
	}
	if sessions == nil {
		panic("session issuer must be provided")
	}

	if cfg.TokenExpiry == 0 {
		cfg.TokenExpiry = DefaultTokenExpiry
	}
	if cfg.UsedRetention == 0 {
		cfg.UsedRetention = DefaultUsedRetention
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.RateLimitWindow == 0 {
		cfg.RateLimitWindow = DefaultRateLimitWindow
	}

	return &Authenticator{
		pending:  NewPendingLinkStore(kv),
		limiter:  NewRateLimiter(kv, cfg.RateLimitWindow),
		audit:    NewAuditLog(kv),
		mail:     mail,
		users:    users,
		sessions: sessions,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Audit exposes the audit log for reporting and export.
func (a *Authenticator) Audit() *AuditLog {
	return a.audit
}

// SendLink issues a single-use sign-in link for email and hands it to the
// mail transport. The result message never reveals whether the account
// exists; a rate-limited key is the only distinct rejection, so the caller
// can show a cool-down hint.
func (a *Authenticator) SendLink(ctx context.Context, email, originIP string) Result {
	email = strings.TrimSpace(strings.ToLower(email))

	err := validation.ValidateEmail(email)
	if err != nil {
		return rejected(ErrInvalidEmail, msgSendFailed)
	}

	attempts, err := a.limiter.Check(ctx, email, originIP)
	if err != nil {
		slog.Error("failed to check rate limit", "error", err, "ip", originIP)
		return rejected(ErrDependencyFailure, msgSendFailed)
	}
	if attempts >= int64(a.cfg.MaxAttempts) {
		slog.Warn("rate limit exceeded", "ip", originIP)
		return rejected(ErrRateLimited, msgCoolDown)
	}

	raw, hash, err := IssueToken()
	if err != nil {
		slog.Error("failed to issue token", "error", err)
		return rejected(ErrDependencyFailure, msgSendFailed)
	}

	link := model.PendingLink{
		TokenHash: hash,
		Email:     email,
		OriginIP:  originIP,
		IssuedAt:  a.now(),
	}
	err = a.pending.Put(ctx, link, a.cfg.TokenExpiry)
	if err != nil {
		slog.Error("failed to persist pending link", "error", err)
		return rejected(ErrDependencyFailure, msgSendFailed)
	}

	subject, text, html := magicLinkEmailTemplate(verifyURL(a.cfg.AppURL, raw, email), a.cfg.AppName, a.cfg.TokenExpiry)
	err = a.mail.Send(ctx, mailer.Message{To: email, Subject: subject, HTML: html, Text: text})
	if err != nil {
		// The pending link stays persisted: if the message was dispatched
		// before the failure the user can still complete verification.
		slog.Error("failed to send magic link email", "error", err, "email", email)
		return rejected(ErrDependencyFailure, msgSendFailed)
	}

	err = a.limiter.Increment(ctx, email, originIP)
	if err != nil {
		slog.Error("failed to increment rate limit", "error", err, "ip", originIP)
		return rejected(ErrDependencyFailure, msgSendFailed)
	}

	slog.Info("magic link sent", "email", email)
	return Result{OK: true, Message: msgLinkSent}
}

// VerifyLink consumes a presented token. On the first valid presentation it
// marks the link used, resolves or creates the user, mints a session, clears
// the rate limit for the key and records the outcome. Every rejection reads
// the same to the end user; the distinction lives in Result.Reason and the
// audit log.
func (a *Authenticator) VerifyLink(ctx context.Context, rawToken, email, originIP string) Result {
	email = strings.TrimSpace(strings.ToLower(email))

	link, err := a.pending.Get(ctx, HashToken(rawToken))
	if errors.Is(err, ErrLinkNotFound) {
		return rejected(ErrInvalidOrExpiredToken, msgInvalidLink)
	}
	if err != nil {
		slog.Error("failed to load pending link", "error", err)
		return rejected(ErrDependencyFailure, msgVerifyFailed)
	}

	if link.Email != email {
		a.recordEvent(ctx, model.EventEmailMismatch, email, originIP)
		return rejected(ErrEmailMismatch, msgInvalidLink)
	}

	if link.Used {
		a.recordEvent(ctx, model.EventTokenReuse, link.Email, originIP)
		return rejected(ErrTokenUsed, msgInvalidLink)
	}

	_, err = a.pending.MarkUsed(ctx, link.TokenHash, a.now(), originIP, a.cfg.UsedRetention)
	switch {
	case errors.Is(err, ErrLinkUsed):
		// Lost the race against a concurrent verification.
		a.recordEvent(ctx, model.EventTokenReuse, link.Email, originIP)
		return rejected(ErrTokenUsed, msgInvalidLink)
	case errors.Is(err, ErrLinkNotFound):
		return rejected(ErrInvalidOrExpiredToken, msgInvalidLink)
	case err != nil:
		slog.Error("failed to consume pending link", "error", err)
		return rejected(ErrDependencyFailure, msgVerifyFailed)
	}

	user, err := a.users.FindOrCreate(ctx, email)
	if err != nil {
		slog.Error("failed to resolve user", "error", err)
		return rejected(ErrDependencyFailure, msgVerifyFailed)
	}

	session, err := a.sessions.Mint(user)
	if err != nil {
		slog.Error("failed to mint session", "error", err, "user_id", user.ID)
		return rejected(ErrDependencyFailure, msgVerifyFailed)
	}

	err = a.limiter.Clear(ctx, email, originIP)
	if err != nil {
		slog.Warn("failed to clear rate limit", "error", err, "ip", originIP)
	}

	a.recordEvent(ctx, model.EventLoginSuccess, email, originIP)

	slog.Info("user authenticated via magic link", "user_id", user.ID, "email", user.Email)
	return Result{OK: true, Message: msgSignedIn, Session: session, User: user}
}

// recordEvent appends to the audit log; a failing audit store never blocks
// the authentication outcome.
func (a *Authenticator) recordEvent(ctx context.Context, kind, email, originIP string) {
	err := a.audit.Record(ctx, kind, email, originIP)
	if err != nil {
		slog.Warn("failed to record security event", "error", err, "kind", kind)
	}
}
