package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmarkhas/tasklane-server/internal/logger"
	"github.com/dmarkhas/tasklane-server/internal/model"
)

// emailPattern is intentionally loose: one @, no whitespace, a dot in
// the domain.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// maxTokenAttempts bounds the retry loop on token collisions. A UUIDv4
// collision means broken entropy, not user error, so the retry is
// internal and never surfaced.
const maxTokenAttempts = 3

// Auth implements the credential lifecycle: issuing magic links,
// converting them into sessions exactly once, and resolving and revoking
// sessions.
type Auth struct {
	users         model.UserStore
	links         model.LoginLinkStore
	sessions      model.SessionStore
	notifier      model.Notifier
	baseURL       string
	allowedEmails []string
	operatorEmail string
	logger        *logger.Logger
}

func NewAuth(
	users model.UserStore,
	links model.LoginLinkStore,
	sessions model.SessionStore,
	notifier model.Notifier,
	baseURL string,
	allowedEmails []string,
	operatorEmail string,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		users:         users,
		links:         links,
		sessions:      sessions,
		notifier:      notifier,
		baseURL:       strings.TrimRight(baseURL, "/"),
		allowedEmails: allowedEmails,
		operatorEmail: operatorEmail,
		logger:        logger,
	}
}

// IssueLink mints a fresh single-use link for the email and hands it to
// the notifier. The link is stored before the mail goes out; a delivery
// failure is reported as model.ErrDelivery with the cause logged only.
func (a *Auth) IssueLink(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("email %q: %w", email, model.ErrValidation)
	}

	if len(a.allowedEmails) > 0 && !a.allowed(email) {
		a.logger.Info("Auth service: email not on allow-list", "email", email)
		return fmt.Errorf("email not authorized: %w", model.ErrForbidden)
	}

	link, err := a.storeFreshLink(ctx, email)
	if err != nil {
		return err
	}

	linkURL := fmt.Sprintf("%s/api/auth/verify?token=%s", a.baseURL, url.QueryEscape(link.Token))
	if err := a.notifier.Send(ctx, email, linkURL); err != nil {
		a.logger.Error("Auth service: failed to deliver magic link",
			"email", email,
			"error", err.Error())
		return model.ErrDelivery
	}

	a.logger.Info("Auth service: magic link issued", "email", email)
	return nil
}

// storeFreshLink generates a token and persists the link, retrying with
// a new token on the (negligible) chance of a collision.
func (a *Auth) storeFreshLink(ctx context.Context, email string) (model.LoginLink, error) {
	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		link := model.LoginLink{
			Token:     uuid.NewString(),
			Email:     email,
			ExpiresAt: time.Now().Add(model.LoginLinkTTL),
		}

		err := a.links.Create(ctx, link)
		if err == nil {
			return link, nil
		}
		if errors.Is(err, model.ErrConflict) {
			a.logger.Error("Auth service: login link token collision", "attempt", attempt+1)
			continue
		}
		return model.LoginLink{}, fmt.Errorf("failed to store login link: %w", err)
	}
	return model.LoginLink{}, fmt.Errorf("failed to store login link: %w", model.ErrConflict)
}

// VerifyLink converts a presented token into a session exactly once.
// Unknown, expired and already-consumed tokens all come back as
// model.ErrNotFound with no further detail.
func (a *Auth) VerifyLink(ctx context.Context, token string) (model.Session, error) {
	link, err := a.links.GetValid(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Session{}, model.ErrNotFound
		}
		return model.Session{}, fmt.Errorf("failed to look up login link: %w", err)
	}

	// Consume before resolving the user. The conditional update makes
	// this the single-fire point: a concurrent verification of the same
	// token loses here and gets nothing.
	if err := a.links.Consume(ctx, token); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Session{}, model.ErrNotFound
		}
		return model.Session{}, fmt.Errorf("failed to consume login link: %w", err)
	}

	user, err := a.users.GetOrCreate(ctx, link.Email)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to resolve user: %w", err)
	}

	session := model.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		ExpiresAt: time.Now().Add(model.SessionTTL),
	}
	if err := a.sessions.Create(ctx, session); err != nil {
		return model.Session{}, fmt.Errorf("failed to create session: %w", err)
	}

	a.logger.Info("Auth service: session minted",
		"email", user.Email,
		"user_id", user.ID)

	return session, nil
}

// ResolveSession resolves the user owning a valid session token. Expired
// and revoked sessions report model.ErrNotFound.
func (a *Auth) ResolveSession(ctx context.Context, token string) (model.User, error) {
	session, err := a.sessions.GetValid(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to look up session: %w", err)
	}

	return model.User{ID: session.UserID, Email: session.Email}, nil
}

// ResolveOperator resolves the fixed identity behind the static service
// credential.
func (a *Auth) ResolveOperator(ctx context.Context) (model.User, error) {
	if a.operatorEmail == "" {
		return model.User{}, model.ErrNotFound
	}

	user, err := a.users.GetOrCreate(ctx, a.operatorEmail)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to resolve operator user: %w", err)
	}
	return user, nil
}

// Logout revokes a session. Revoking an unknown token is a no-op.
func (a *Auth) Logout(ctx context.Context, token string) error {
	if err := a.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (a *Auth) allowed(email string) bool {
	for _, e := range a.allowedEmails {
		if e == email {
			return true
		}
	}
	return false
}
