package session

// FlashDanger is the flash kind for failures; kinds double as the alert
// class the login page renders.
const FlashDanger = "danger"

// AddFlash queues a notice for the next rendered page.
func (s *Session) AddFlash(kind, message string) {
	if message == "" {
		return
	}
	if s.Flashes == nil {
		s.Flashes = make(map[string][]string)
	}
	s.Flashes[kind] = append(s.Flashes[kind], message)
}

// PeekFlashes returns queued notices without consuming them.
func (s *Session) PeekFlashes() map[string][]string {
	out := make(map[string][]string, len(s.Flashes))
	for k, v := range s.Flashes {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// ConsumeFlashes returns queued notices and forgets them. The caller must
// save the session for the removal to stick.
func (s *Session) ConsumeFlashes() map[string][]string {
	out := s.PeekFlashes()
	s.Flashes = nil
	return out
}

// ConsumeAuthError returns the last authentication error and clears it.
func (s *Session) ConsumeAuthError() string {
	msg := s.AuthError
	s.AuthError = ""
	return msg
}

// Dirty reports whether the session holds one-shot data that a reader
// would need to persist after consuming.
func (s *Session) Dirty() bool {
	return len(s.Flashes) > 0 || s.AuthError != ""
}
