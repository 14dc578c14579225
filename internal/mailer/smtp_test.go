package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmarkhas/tasklane-server/internal/testutil"
)

func TestSMTP_Render(t *testing.T) {
	s := NewSMTP("smtp.example.com", 587, "user", "pass", "noreply@example.com", testutil.MakeNoopLogger())

	body, err := s.render("alice@example.com", "https://tasks.example.com/api/auth/verify?token=abc")
	require.NoError(t, err)

	mail := string(body)
	assert.Contains(t, mail, "From: noreply@example.com\r\n")
	assert.Contains(t, mail, "To: alice@example.com\r\n")
	assert.Contains(t, mail, "Subject: Sign in to Tasklane\r\n")
	assert.Contains(t, mail, "Content-Type: text/plain; charset=utf-8\r\n\r\n")
	assert.Contains(t, mail, "https://tasks.example.com/api/auth/verify?token=abc")
	assert.Contains(t, mail, "expires in 15 minutes")
}
