package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmarkhas/tasklane-server/internal/testutil"
)

// fakeCounter counts in memory the way the fixed-window keys do in Redis.
type fakeCounter struct {
	counts    map[string]int64
	incrErr   error
	expireErr error
	expired   []string
}

func (f *fakeCounter) Incr(ctx context.Context, key string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	if f.incrErr != nil {
		cmd.SetErr(f.incrErr)
		return cmd
	}
	if f.counts == nil {
		f.counts = make(map[string]int64)
	}
	f.counts[key]++
	cmd.SetVal(f.counts[key])
	return cmd
}

func (f *fakeCounter) Expire(ctx context.Context, key string, _ time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx)
	if f.expireErr != nil {
		cmd.SetErr(f.expireErr)
		return cmd
	}
	f.expired = append(f.expired, key)
	cmd.SetVal(true)
	return cmd
}

func callLimit(t *testing.T, m *RateLimit) (*httptest.ResponseRecorder, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := m.Limit(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
	return rec, err
}

func TestRateLimit_NoClientPassesThrough(t *testing.T) {
	m := NewRateLimit(nil, 5, time.Minute, testutil.MakeNoopLogger())

	for i := 0; i < 20; i++ {
		rec, err := callLimit(t, m)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimit_OverLimitRejected(t *testing.T) {
	counter := &fakeCounter{}
	m := &RateLimit{rdb: counter, limit: 5, window: time.Minute, logger: testutil.MakeNoopLogger()}

	for i := 0; i < 5; i++ {
		rec, err := callLimit(t, m)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec, err := callLimit(t, m)
	require.Error(t, err)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	// The window was armed exactly once, on the first hit.
	assert.Len(t, counter.expired, 1)
}

func TestRateLimit_RedisFailureDegradesOpen(t *testing.T) {
	counter := &fakeCounter{incrErr: errors.New("connection refused")}
	m := &RateLimit{rdb: counter, limit: 1, window: time.Minute, logger: testutil.MakeNoopLogger()}

	for i := 0; i < 3; i++ {
		rec, err := callLimit(t, m)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimit_ExpireFailureStillServes(t *testing.T) {
	counter := &fakeCounter{expireErr: errors.New("connection reset")}
	m := &RateLimit{rdb: counter, limit: 5, window: time.Minute, logger: testutil.MakeNoopLogger()}

	rec, err := callLimit(t, m)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}
