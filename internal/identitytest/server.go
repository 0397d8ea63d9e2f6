// Package identitytest provides an in-process fake of the identity service for tests.
//
// The fake serves the same REST surface as the real service, issues HS256 JWTs, and
// records how many times each route was hit so tests can assert on network traffic.
package identitytest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Route keys accepted by Calls, SetLatency and SetStatus.
const (
	RouteLogin              = "POST /auth/login"
	RouteRegister           = "POST /auth/register"
	RouteMe                 = "GET /auth/me"
	RouteRefresh            = "POST /auth/refresh"
	RouteLogout             = "POST /auth/logout"
	RouteProfile            = "PUT /auth/profile"
	RouteVerifyEmail        = "POST /auth/verify-email"
	RouteResendVerification = "POST /auth/resend-verification"
	RouteForgotPassword     = "POST /auth/forgot-password"
	RouteResetPassword      = "POST /auth/reset-password"
)

type account struct {
	ID         string
	Email      string
	Name       string
	Role       string
	Password   string
	Verified   bool
	VerifyCode string
	ResetCode  string
	// refreshJTI is the only refresh token id accepted for the account; empty after logout.
	refreshJTI string
}

type claims struct {
	Type string `json:"typ"`
	Gen  int    `json:"gen"`
	jwt.RegisteredClaims
}

// Server is a fake identity service backed by httptest.Server.
type Server struct {
	*httptest.Server

	secret []byte

	mu          sync.Mutex
	accounts    map[string]*account // by email
	calls       map[string]int
	latency     map[string]time.Duration
	status      map[string]int
	gen         int
	failRefresh bool
	codes       int
}

// New starts a fake identity service. It is closed automatically via t.Cleanup
// when a cleanup registrar is supplied.
func New(cleanup interface{ Cleanup(func()) }) *Server {
	s := &Server{
		secret:   []byte("identitytest-" + uuid.NewString()),
		accounts: make(map[string]*account),
		calls:    make(map[string]int),
		latency:  make(map[string]time.Duration),
		status:   make(map[string]int),
	}

	mux := http.NewServeMux()
	s.handle(mux, RouteLogin, s.login)
	s.handle(mux, RouteRegister, s.register)
	s.handle(mux, RouteMe, s.me)
	s.handle(mux, RouteRefresh, s.refresh)
	s.handle(mux, RouteLogout, s.logout)
	s.handle(mux, RouteProfile, s.updateProfile)
	s.handle(mux, RouteVerifyEmail, s.verifyEmail)
	s.handle(mux, RouteResendVerification, s.resendVerification)
	s.handle(mux, RouteForgotPassword, s.forgotPassword)
	s.handle(mux, RouteResetPassword, s.resetPassword)

	s.Server = httptest.NewServer(mux)
	if cleanup != nil {
		cleanup.Cleanup(s.Close)
	}
	return s
}

func (s *Server) handle(mux *http.ServeMux, route string, h http.HandlerFunc) {
	mux.HandleFunc(route, func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[route]++
		delay := s.latency[route]
		forced := s.status[route]
		s.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		if forced != 0 {
			writeDetail(w, forced, http.StatusText(forced))
			return
		}
		h(w, r)
	})
}

// AddUser registers a verified account and returns its id.
func (s *Server) AddUser(email, password, name, role string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := &account{ID: uuid.NewString(), Email: email, Name: name, Role: role, Password: password, Verified: true}
	s.accounts[strings.ToLower(email)] = a
	return a.ID
}

// IssueTokens returns a fresh access/refresh pair for an existing account,
// as if the user had logged in earlier in another process.
func (s *Server) IssueTokens(email string) (access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accounts[strings.ToLower(email)]
	if a == nil {
		panic("identitytest: unknown account " + email)
	}
	return s.issueLocked(a)
}

// Calls returns how many requests hit route.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// TotalCalls returns the number of requests across all routes.
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

// ResetCalls zeroes all counters.
func (s *Server) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = make(map[string]int)
}

// SetLatency delays every response on route by d.
func (s *Server) SetLatency(route string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latency[route] = d
}

// SetStatus forces route to answer with status; 0 restores normal behaviour.
func (s *Server) SetStatus(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[route] = status
}

// ExpireAccessTokens makes every access token issued so far fail verification.
func (s *Server) ExpireAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
}

// FailRefresh makes /auth/refresh reject every refresh token while on is true.
func (s *Server) FailRefresh(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failRefresh = on
}

// VerificationCode returns the pending email verification code for email.
func (s *Server) VerificationCode(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a := s.accounts[strings.ToLower(email)]; a != nil {
		return a.VerifyCode
	}
	return ""
}

// ResetCode returns the pending password reset code for email.
func (s *Server) ResetCode(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a := s.accounts[strings.ToLower(email)]; a != nil {
		return a.ResetCode
	}
	return ""
}

// Verified reports whether email has completed verification.
func (s *Server) Verified(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accounts[strings.ToLower(email)]
	return a != nil && a.Verified
}

func (s *Server) issueLocked(a *account) (string, string) {
	now := time.Now()
	access := s.sign(claims{
		Type: "access",
		Gen:  s.gen,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(30 * time.Minute)),
		},
	})
	a.refreshJTI = uuid.NewString()
	refresh := s.sign(claims{
		Type: "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.ID,
			ID:        a.refreshJTI,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(7 * 24 * time.Hour)),
		},
	})
	return access, refresh
}

func (s *Server) sign(c claims) string {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		panic(fmt.Sprintf("identitytest: sign token: %v", err))
	}
	return tok
}

// parse validates raw as a token of the given type and returns its claims.
func (s *Server) parse(raw, typ string) (*claims, bool) {
	c := &claims{}
	_, err := jwt.ParseWithClaims(raw, c, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || c.Type != typ {
		return nil, false
	}
	return c, true
}

// currentAccount resolves the bearer token of r. Caller must hold s.mu.
func (s *Server) currentAccountLocked(r *http.Request) *account {
	h := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(h, "Bearer ")
	if !ok {
		return nil
	}
	c, ok := s.parse(strings.TrimSpace(raw), "access")
	if !ok || c.Gen < s.gen {
		return nil
	}
	return s.byIDLocked(c.Subject)
}

func (s *Server) byIDLocked(id string) *account {
	for _, a := range s.accounts {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (s *Server) nextCodeLocked(prefix string) string {
	s.codes++
	return fmt.Sprintf("%s-%04d", prefix, s.codes)
}

func decode(r *http.Request, v any) bool {
	return json.NewDecoder(r.Body).Decode(v) == nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func userBody(a *account) map[string]string {
	return map[string]string{"id": a.ID, "email": a.Email, "name": a.Name, "role": a.Role}
}
