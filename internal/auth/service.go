// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"mealplan/cli/internal/backend"
	"mealplan/cli/internal/credstore"
	apperrors "mealplan/cli/internal/errors"
)

// Coordinator keys.
const (
	keyAuthCheck    = "authCheck"
	keyProfileFetch = "profileFetch"
)

// Defaults applied when no option overrides them.
const (
	DefaultDebounceWindow = 300 * time.Millisecond
	DefaultRequestTimeout = 10 * time.Second
)

var (
	// errSuperseded marks work whose session ended (logout or a new login) while it ran.
	errSuperseded = apperrors.New(apperrors.KindUnknown, "session changed during request")
	// errCredentialWrite marks a refreshed pair the store would not accept.
	errCredentialWrite = apperrors.New(apperrors.KindUnknown, "could not store refreshed credentials")
)

// Service is the session orchestrator. One Service is shared by every caller in
// the process; all session state is mutated through its methods.
type Service struct {
	api   backend.API
	store credstore.Store
	log   zerolog.Logger

	validity ValidityCache
	profile  *ProfileCache
	coord    *Coordinator

	debounce time.Duration
	timeout  time.Duration

	// mu guards creds and epoch. Store writes happen under mu so the store and
	// the mirror never disagree.
	mu    sync.RWMutex
	creds credstore.Pair
	// epoch advances whenever the session is replaced or ended. Work captures it
	// at start and discards its outcome if it changed.
	epoch uint64
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for session tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithDebounceWindow sets the FetchUserData debounce window.
func WithDebounceWindow(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithRequestTimeout bounds shared executions started by the coordinator.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewService builds a Service and loads any stored credential pair. A store read
// failure is returned together with a usable, anonymous Service.
func NewService(ctx context.Context, api backend.API, store credstore.Store, opts ...Option) (*Service, error) {
	s := &Service{
		api:      api,
		store:    store,
		log:      zerolog.Nop(),
		profile:  NewProfileCache(),
		debounce: DefaultDebounceWindow,
		timeout:  DefaultRequestTimeout,
	}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.With().Str("component", "session").Logger()
	s.coord = NewCoordinator(s.timeout, s.log)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.hydrateLocked(ctx); err != nil {
		s.log.Warn().Err(err).Msg("credential store unreadable, starting anonymous")
		return s, err
	}
	return s, nil
}

func (s *Service) session() (uint64, credstore.Pair) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch, s.creds
}

// QuickCheck reports whether a credential pair is present. It reads only the
// in-memory mirror.
func (s *Service) QuickCheck() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.Complete()
}

// State returns the current session state.
func (s *Service) State() State {
	has := s.QuickCheck()
	return deriveState(has, s.validity.Get(), s.profile.Snapshot().Authenticated)
}

// Validity returns the current validity belief.
func (s *Service) Validity() Validity { return s.validity.Get() }

// Profile returns the cached profile.
func (s *Service) Profile() Snapshot { return s.profile.Snapshot() }

// Subscribe registers fn for profile changes.
func (s *Service) Subscribe(fn func(Snapshot)) (cancel func()) { return s.profile.Subscribe(fn) }

// ResetTokenValidity clears an Invalid marking without touching stored
// credentials. Call it when entering login or registration.
func (s *Service) ResetTokenValidity() {
	if s.validity.ClearInvalid() {
		s.log.Debug().Msg("token validity reset")
	}
}

// Login exchanges email and password for credentials, stores them and loads the
// profile. On failure nothing is stored.
func (s *Service) Login(ctx context.Context, email, password string) Result {
	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.log.Debug().Err(err).Msg("login rejected")
		return failure(err)
	}
	pair := credstore.Pair{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}

	s.mu.Lock()
	if err := s.persistLocked(ctx, pair); err != nil {
		s.mu.Unlock()
		s.log.Warn().Err(err).Msg("failed to store credentials")
		return failure(apperrors.Wrap(apperrors.KindUnknown, "could not store credentials", err))
	}
	s.epoch++
	epoch := s.epoch
	s.validity.MarkValid()
	s.mu.Unlock()
	// the previous session's outstanding writes must not land on this one
	s.profile.Fence()

	seq := s.profile.Begin()
	user, err := s.api.GetMe(ctx, pair.AccessToken)
	var p Profile
	if err != nil {
		s.log.Debug().Err(err).Msg("profile fetch after login failed, using login response")
		p = Profile{ID: string(resp.UserID), Email: resp.Email, Name: resp.Name}
		if p.Email == "" {
			p.Email = email
		}
	} else {
		p = profileFromUser(user)
	}
	s.acceptProfile(epoch, seq, p)

	s.log.Info().Str("user_id", p.ID).Msg("logged in")
	return success(&p, "")
}

// Register creates an account. It stores no credential and does not change the
// session.
func (s *Service) Register(ctx context.Context, name, email, password string) Result {
	user, err := s.api.Register(ctx, name, email, password)
	if err != nil {
		return failure(err)
	}
	p := profileFromUser(user)
	return success(&p, "Account created. Check your email for a verification code.")
}

// Logout ends the session locally: credentials, profile and validity are all
// cleared without any network call. It always succeeds; when the store could
// not be cleared the Message says so and Err carries the cause.
func (s *Service) Logout(ctx context.Context) Result {
	s.mu.Lock()
	err := s.forgetLocked(ctx)
	s.validity.Reset()
	s.mu.Unlock()
	s.profile.Clear()

	s.log.Info().Msg("logged out")
	if err != nil {
		res := success(nil, "Logged out, but stored credentials could not be removed")
		res.Err = err
		return res
	}
	return success(nil, "Logged out")
}

// RevokeRemote asks the service to revoke the current refresh token. It is best
// effort and changes no local state.
func (s *Service) RevokeRemote(ctx context.Context) error {
	_, pair := s.session()
	if !pair.Complete() {
		return ErrNoSession
	}
	return s.api.Logout(ctx, pair.AccessToken)
}

// CheckAuthStatus verifies the stored credential with the service, refreshing it
// once on rejection. Concurrent callers share one check. A transport failure
// returns false with the error and leaves every cache untouched.
func (s *Service) CheckAuthStatus(ctx context.Context) (bool, error) {
	if s.validity.Get() == ValidityInvalid {
		return false, ErrSessionInvalid
	}
	if !s.QuickCheck() {
		return false, ErrNoSession
	}
	v, err := s.coord.RunExclusive(ctx, keyAuthCheck, func(ctx context.Context) (any, error) {
		return s.checkAuth(ctx)
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

func (s *Service) checkAuth(ctx context.Context) (bool, error) {
	if s.validity.Get() == ValidityInvalid {
		return false, ErrSessionInvalid
	}
	epoch, pair := s.session()
	if !pair.Complete() {
		return false, ErrNoSession
	}

	seq := s.profile.Begin()
	user, err := s.api.GetMe(ctx, pair.AccessToken)
	if err == nil {
		s.acceptProfile(epoch, seq, profileFromUser(user))
		return true, nil
	}
	if !apperrors.IsUnauthorized(err) {
		s.log.Debug().Err(err).Msg("verification failed, state unchanged")
		return false, err
	}

	s.log.Debug().Msg("access token rejected, refreshing")
	next, err := s.refresh(ctx, epoch, pair)
	if err != nil {
		if refreshRejected(err) {
			s.invalidate(ctx, epoch, pair.AccessToken, true)
			return false, ErrSessionInvalid
		}
		return false, err
	}

	seq = s.profile.Begin()
	user, err = s.api.GetMe(ctx, next.AccessToken)
	if err != nil {
		if apperrors.IsUnauthorized(err) {
			s.invalidate(ctx, epoch, next.AccessToken, false)
			return false, ErrSessionInvalid
		}
		return false, err
	}
	s.acceptProfile(epoch, seq, profileFromUser(user))
	return true, nil
}

// refresh exchanges the refresh token and stores the new pair.
func (s *Service) refresh(ctx context.Context, epoch uint64, pair credstore.Pair) (credstore.Pair, error) {
	access, refresh, err := s.api.RefreshToken(ctx, pair.RefreshToken)
	if err != nil {
		// the response text is not logged; it may echo the refresh token
		s.log.Debug().
			Str("kind", string(apperrors.KindOf(err))).
			Int("status", apperrors.StatusOf(err)).
			Msg("refresh failed")
		return credstore.Pair{}, err
	}
	if refresh == "" {
		refresh = pair.RefreshToken
	}
	next := credstore.Pair{AccessToken: access, RefreshToken: refresh}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return credstore.Pair{}, errSuperseded
	}
	if err := s.persistLocked(ctx, next); err != nil {
		return credstore.Pair{}, fmt.Errorf("%w: %w", errCredentialWrite, err)
	}
	s.log.Debug().Msg("access token refreshed")
	return next, nil
}

// refreshRejected reports whether a refresh failure is the service's answer.
// Any HTTP response counts, whatever its status; a request that never got one,
// a superseded session or a local store failure does not.
func refreshRejected(err error) bool {
	if apperrors.IsTransport(err) || errors.Is(err, errSuperseded) || errors.Is(err, errCredentialWrite) {
		return false
	}
	var e *apperrors.E
	return errors.As(err, &e)
}

// FetchUserData returns the profile, fetching it when the cache has none. Calls
// within the debounce window collapse into one request and all receive its
// result. No request is made while the credential is known to be invalid.
func (s *Service) FetchUserData(ctx context.Context) Result {
	if s.validity.Get() == ValidityInvalid {
		return failure(ErrSessionInvalid)
	}
	if snap := s.profile.Snapshot(); snap.Authenticated {
		return success(&snap.Profile, "")
	}
	if !s.QuickCheck() {
		return failure(ErrNoSession)
	}

	v, err := s.coord.Debounce(ctx, keyProfileFetch, s.debounce, func(ctx context.Context) (any, error) {
		return s.coord.RunExclusive(ctx, keyProfileFetch, func(ctx context.Context) (any, error) {
			return s.fetchProfile(ctx, false)
		})
	})
	return profileResult(v, err)
}

// RefreshProfile re-fetches the profile even if one is cached.
func (s *Service) RefreshProfile(ctx context.Context) Result {
	if s.validity.Get() == ValidityInvalid {
		return failure(ErrSessionInvalid)
	}
	v, err := s.coord.RunExclusive(ctx, keyProfileFetch, func(ctx context.Context) (any, error) {
		return s.fetchProfile(ctx, true)
	})
	return profileResult(v, err)
}

func profileResult(v any, err error) Result {
	if err != nil {
		return failure(err)
	}
	p := v.(Profile)
	return success(&p, "")
}

func (s *Service) fetchProfile(ctx context.Context, force bool) (any, error) {
	if s.validity.Get() == ValidityInvalid {
		return nil, ErrSessionInvalid
	}
	if snap := s.profile.Snapshot(); !force && snap.Authenticated {
		return snap.Profile, nil
	}
	epoch, pair := s.session()
	if !pair.Complete() {
		return nil, ErrNoSession
	}

	seq := s.profile.Begin()
	user, err := s.api.GetMe(ctx, pair.AccessToken)
	if err != nil {
		if apperrors.IsUnauthorized(err) {
			s.invalidate(ctx, epoch, pair.AccessToken, false)
		}
		return nil, err
	}
	p := profileFromUser(user)
	s.acceptProfile(epoch, seq, p)
	return p, nil
}

// UpdateProfile changes the user's name or email.
func (s *Service) UpdateProfile(ctx context.Context, update backend.ProfileUpdate) Result {
	if s.validity.Get() == ValidityInvalid {
		return failure(ErrSessionInvalid)
	}
	epoch, pair := s.session()
	if !pair.Complete() {
		return failure(ErrNoSession)
	}

	seq := s.profile.Begin()
	user, err := s.api.UpdateProfile(ctx, pair.AccessToken, update)
	if err != nil {
		if apperrors.IsUnauthorized(err) {
			s.invalidate(ctx, epoch, pair.AccessToken, false)
		}
		return failure(err)
	}
	p := profileFromUser(user)
	s.acceptProfile(epoch, seq, p)
	return success(&p, "Profile updated")
}

// VerifyEmail confirms an account with its verification code.
func (s *Service) VerifyEmail(ctx context.Context, code string) Result {
	return messageResult(s.api.VerifyEmail(ctx, code))
}

// ResendVerification sends a new verification code to email.
func (s *Service) ResendVerification(ctx context.Context, email string) Result {
	return messageResult(s.api.ResendVerification(ctx, email))
}

// ForgotPassword requests a password reset code for email.
func (s *Service) ForgotPassword(ctx context.Context, email string) Result {
	return messageResult(s.api.ForgotPassword(ctx, email))
}

// ResetPassword sets a new password with a reset code.
func (s *Service) ResetPassword(ctx context.Context, code, newPassword string) Result {
	return messageResult(s.api.ResetPassword(ctx, code, newPassword))
}

func messageResult(msg string, err error) Result {
	if err != nil {
		return failure(err)
	}
	return success(nil, msg)
}

// acceptProfile records a successful identity response for the session epoch.
func (s *Service) acceptProfile(epoch, seq uint64, p Profile) {
	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		s.log.Debug().Msg("dropping profile from a finished session")
		return
	}
	s.validity.MarkValid()
	s.mu.Unlock()

	if !s.profile.Set(seq, p) {
		s.log.Debug().Uint64("seq", seq).Msg("dropping stale profile write")
	}
}

// invalidate records a rejection of accessToken: validity becomes Invalid and
// the profile is cleared. With dropCredentials the stored pair is removed too.
// A rejection is ignored once the session or its access token has moved on.
func (s *Service) invalidate(ctx context.Context, epoch uint64, accessToken string, dropCredentials bool) {
	s.mu.Lock()
	if s.epoch != epoch || s.creds.AccessToken != accessToken {
		s.mu.Unlock()
		s.log.Debug().Msg("dropping rejection of a replaced credential")
		return
	}
	s.validity.MarkInvalid()
	if dropCredentials {
		_ = s.forgetLocked(ctx)
	}
	s.mu.Unlock()
	s.profile.Clear()

	s.log.Info().Bool("credentials_cleared", dropCredentials).Msg("session invalidated")
}
