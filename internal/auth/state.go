package auth

// State is a step of the login handshake.
type State int

const (
	StateUnauthenticated State = iota
	StateProviderRedirect
	StateCallbackReceived
	StateTokenExchanged
	StateUserResolved
	StateAuthenticated
	StateAuthFailed
)

var stateNames = [...]string{
	StateUnauthenticated:  "unauthenticated",
	StateProviderRedirect: "provider_redirect",
	StateCallbackReceived: "callback_received",
	StateTokenExchanged:   "token_exchanged",
	StateUserResolved:     "user_resolved",
	StateAuthenticated:    "authenticated",
	StateAuthFailed:       "auth_failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether the handshake has finished.
func (s State) Terminal() bool {
	return s == StateAuthenticated || s == StateAuthFailed
}
