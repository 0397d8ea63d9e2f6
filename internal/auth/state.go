// Package auth keeps one consistent view of who is logged in for every caller in
// the process.
//
// A Service owns the credential pair, a tri-state ValidityCache, an observable
// ProfileCache and a Coordinator that collapses concurrent identity checks into a
// single network call. The session State is derived from those on every read.
package auth

// State is the session state derived from credentials, validity and profile.
type State int

const (
	// StateAnonymous means no credential is stored.
	StateAnonymous State = iota
	// StateChecking means a credential is present but not yet confirmed.
	StateChecking
	// StateAuthenticated means the credential is confirmed and the profile is known.
	StateAuthenticated
	// StateInvalid means the service rejected the stored credential.
	StateInvalid
)

func (s State) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateAuthenticated:
		return "authenticated"
	case StateInvalid:
		return "invalid"
	default:
		return "anonymous"
	}
}

func deriveState(hasCredentials bool, v Validity, authenticated bool) State {
	switch {
	case !hasCredentials:
		return StateAnonymous
	case v == ValidityInvalid:
		return StateInvalid
	case v == ValidityValid && authenticated:
		return StateAuthenticated
	default:
		return StateChecking
	}
}
