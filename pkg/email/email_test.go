package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSenderConfigured(t *testing.T) {
	assert.True(t, NewSender("smtp.example.com", "587", "bot@example.com", "pw").Configured())
	assert.False(t, NewSender("", "587", "bot@example.com", "pw").Configured())
	assert.False(t, NewSender("smtp.example.com", "587", "", "pw").Configured())
}

func TestSendUnconfigured(t *testing.T) {
	err := NewSender("", "", "", "").Send("to@example.com", "subject", "body")
	assert.EqualError(t, err, "email: not configured")
}
