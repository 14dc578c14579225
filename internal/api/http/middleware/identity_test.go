package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmarkhas/tasklane-server/internal/model"
	"github.com/dmarkhas/tasklane-server/internal/testutil"
)

type fakeResolver struct {
	sessions map[string]model.User
	operator *model.User
}

func (f *fakeResolver) ResolveSession(_ context.Context, token string) (model.User, error) {
	if user, ok := f.sessions[token]; ok {
		return user, nil
	}
	return model.User{}, model.ErrNotFound
}

func (f *fakeResolver) ResolveOperator(context.Context) (model.User, error) {
	if f.operator == nil {
		return model.User{}, model.ErrNotFound
	}
	return *f.operator, nil
}

func callRequire(t *testing.T, identity *Identity, prepare func(*http.Request)) (*httptest.ResponseRecorder, *model.User) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	if prepare != nil {
		prepare(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var resolved *model.User
	err := identity.Require(func(c echo.Context) error {
		if user, ok := UserFrom(c); ok {
			resolved = &user
		}
		return c.NoContent(http.StatusOK)
	})(c)
	if err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, resolved
}

func TestIdentity_NoCredential(t *testing.T) {
	identity := NewIdentity(&fakeResolver{}, "secret", testutil.MakeNoopLogger())

	rec, user := callRequire(t, identity, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, user)
}

func TestIdentity_ValidSessionCookie(t *testing.T) {
	resolver := &fakeResolver{sessions: map[string]model.User{
		"good-token": {ID: 4, Email: "a@example.com"},
	}}
	identity := NewIdentity(resolver, "", testutil.MakeNoopLogger())

	rec, user := callRequire(t, identity, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "good-token"})
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, user)
	assert.Equal(t, "a@example.com", user.Email)
}

func TestIdentity_ExpiredSessionIsAbsence(t *testing.T) {
	// An expired session resolves to nothing, indistinguishable from no
	// cookie at all.
	identity := NewIdentity(&fakeResolver{}, "", testutil.MakeNoopLogger())

	rec, user := callRequire(t, identity, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "expired-token"})
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, user)
}

func TestIdentity_ServiceCredentialWins(t *testing.T) {
	operator := model.User{ID: 1, Email: "ops@example.com"}
	resolver := &fakeResolver{
		operator: &operator,
		sessions: map[string]model.User{"session-token": {ID: 2, Email: "b@example.com"}},
	}
	identity := NewIdentity(resolver, "topsecret", testutil.MakeNoopLogger())

	// Both a valid service credential and a valid session cookie are
	// present; the credential decides.
	rec, user := callRequire(t, identity, func(req *http.Request) {
		req.Header.Set(APIKeyHeader, "topsecret")
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "session-token"})
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, user)
	assert.Equal(t, "ops@example.com", user.Email)
}

func TestIdentity_WrongServiceCredentialFallsThrough(t *testing.T) {
	operator := model.User{ID: 1, Email: "ops@example.com"}
	resolver := &fakeResolver{
		operator: &operator,
		sessions: map[string]model.User{"session-token": {ID: 2, Email: "b@example.com"}},
	}
	identity := NewIdentity(resolver, "topsecret", testutil.MakeNoopLogger())

	rec, user := callRequire(t, identity, func(req *http.Request) {
		req.Header.Set(APIKeyHeader, "wrong")
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "session-token"})
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, user)
	assert.Equal(t, "b@example.com", user.Email)
}

func TestIdentity_ServiceCredentialDisabled(t *testing.T) {
	// With no key configured, presenting one never matches.
	operator := model.User{ID: 1, Email: "ops@example.com"}
	identity := NewIdentity(&fakeResolver{operator: &operator}, "", testutil.MakeNoopLogger())

	rec, user := callRequire(t, identity, func(req *http.Request) {
		req.Header.Set(APIKeyHeader, "")
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, user)
}
