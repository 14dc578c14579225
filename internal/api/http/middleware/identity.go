package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dmarkhas/tasklane-server/internal/logger"
	"github.com/dmarkhas/tasklane-server/internal/model"
)

// SessionCookie is the name of the session cookie.
const SessionCookie = "tasklane_session"

// APIKeyHeader carries the static service credential.
const APIKeyHeader = "X-Api-Key"

const userContextKey = "user"

// IdentityResolver resolves users from session tokens or the configured
// operator identity.
type IdentityResolver interface {
	ResolveSession(ctx context.Context, token string) (model.User, error)
	ResolveOperator(ctx context.Context) (model.User, error)
}

// Identity resolves the caller for protected routes. A matching static
// service credential wins over any session cookie present on the same
// request; otherwise the session cookie decides; otherwise the caller is
// anonymous and rejected. The rejection never reveals whether a
// credential was absent, expired or revoked.
type Identity struct {
	auth   IdentityResolver
	apiKey string
	logger *logger.Logger
}

// NewIdentity creates a new Identity middleware instance. An empty
// apiKey disables the service credential path.
func NewIdentity(auth IdentityResolver, apiKey string, logger *logger.Logger) *Identity {
	return &Identity{auth: auth, apiKey: apiKey, logger: logger}
}

// Require resolves the caller and rejects anonymous requests with a
// uniform 401.
func (m *Identity) Require(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := m.resolve(c)
		if err != nil {
			m.logger.Error("identity resolution failed", "error", err.Error())
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		if user == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}

		c.Set(userContextKey, *user)
		return next(c)
	}
}

func (m *Identity) resolve(c echo.Context) (*model.User, error) {
	ctx := c.Request().Context()

	if m.apiKey != "" {
		presented := c.Request().Header.Get(APIKeyHeader)
		if presented != "" && subtle.ConstantTimeCompare([]byte(presented), []byte(m.apiKey)) == 1 {
			user, err := m.auth.ResolveOperator(ctx)
			if err == nil {
				return &user, nil
			}
			if !errors.Is(err, model.ErrNotFound) {
				return nil, err
			}
			// No operator configured; fall through to the session path.
		}
	}

	cookie, err := c.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	user, err := m.auth.ResolveSession(ctx, cookie.Value)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// UserFrom returns the resolved user placed on the context by Require.
func UserFrom(c echo.Context) (model.User, bool) {
	user, ok := c.Get(userContextKey).(model.User)
	return user, ok
}
