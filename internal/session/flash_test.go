package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsumeFlashesIsOneShot(t *testing.T) {
	var s Session
	s.AddFlash(FlashDanger, "Authentication error: User not found.")
	s.AddFlash(FlashDanger, "")

	assert.True(t, s.Dirty())
	assert.Equal(t, map[string][]string{
		FlashDanger: {"Authentication error: User not found."},
	}, s.PeekFlashes())

	first := s.ConsumeFlashes()
	assert.Len(t, first[FlashDanger], 1)

	second := s.ConsumeFlashes()
	assert.Empty(t, second)
	assert.False(t, s.Dirty())
}

func TestConsumeAuthError(t *testing.T) {
	s := Session{AuthError: "User not found."}

	assert.Equal(t, "User not found.", s.ConsumeAuthError())
	assert.Equal(t, "", s.ConsumeAuthError())
}

func TestAuthenticated(t *testing.T) {
	var nilSession *Session
	assert.False(t, nilSession.Authenticated())
	assert.False(t, (&Session{SessionID: "anon"}).Authenticated())
	assert.True(t, (&Session{SessionID: "s", UserID: "u"}).Authenticated())
}
