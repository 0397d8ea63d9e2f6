package identitytest

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(r, &in) {
		writeDetail(w, http.StatusBadRequest, "Malformed request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accounts[strings.ToLower(in.Email)]
	if a == nil || a.Password != in.Password {
		writeDetail(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}
	if !a.Verified {
		writeDetail(w, http.StatusForbidden, "Email not verified")
		return
	}
	access, refresh := s.issueLocked(a)
	writeJSON(w, http.StatusOK, map[string]string{
		"access_token":  access,
		"refresh_token": refresh,
		"token_type":    "bearer",
		"user_id":       a.ID,
		"email":         a.Email,
		"name":          a.Name,
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(r, &in) {
		writeDetail(w, http.StatusBadRequest, "Malformed request")
		return
	}
	if !strings.Contains(in.Email, "@") {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]any{{"loc": []string{"body", "email"}, "msg": "value is not a valid email address"}},
		})
		return
	}
	if len(in.Password) < 8 {
		writeDetail(w, http.StatusBadRequest, "Password must be at least 8 characters long")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(in.Email)
	if _, exists := s.accounts[key]; exists {
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	a := &account{
		ID:       uuid.NewString(),
		Email:    in.Email,
		Name:     in.Name,
		Role:     "user",
		Password: in.Password,
	}
	a.VerifyCode = s.nextCodeLocked("verify")
	s.accounts[key] = a
	writeJSON(w, http.StatusOK, userBody(a))
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.currentAccountLocked(r)
	if a == nil {
		writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	writeJSON(w, http.StatusOK, userBody(a))
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	var in struct {
		RefreshToken string `json:"refresh_token"`
	}
	if !decode(r, &in) || in.RefreshToken == "" {
		writeDetail(w, http.StatusUnauthorized, "Refresh token required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failRefresh {
		writeDetail(w, http.StatusUnauthorized, "Refresh token has expired")
		return
	}
	c, ok := s.parse(in.RefreshToken, "refresh")
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	a := s.byIDLocked(c.Subject)
	if a == nil || a.refreshJTI == "" || a.refreshJTI != c.ID {
		writeDetail(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	jti := a.refreshJTI
	access, _ := s.issueLocked(a)
	// Refresh does not rotate the refresh token.
	a.refreshJTI = jti
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": access,
		"token_type":   "bearer",
		"expires_in":   1800,
	})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.currentAccountLocked(r)
	if a == nil {
		writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	a.refreshJTI = ""
	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully logged out"})
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if !decode(r, &in) {
		writeDetail(w, http.StatusBadRequest, "Malformed request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.currentAccountLocked(r)
	if a == nil {
		writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	if in.Email != "" && !strings.EqualFold(in.Email, a.Email) {
		if !strings.Contains(in.Email, "@") {
			writeDetail(w, http.StatusBadRequest, "Invalid email format")
			return
		}
		if _, taken := s.accounts[strings.ToLower(in.Email)]; taken {
			writeDetail(w, http.StatusBadRequest, "Email already registered")
			return
		}
		delete(s.accounts, strings.ToLower(a.Email))
		a.Email = in.Email
		s.accounts[strings.ToLower(a.Email)] = a
	}
	if in.Name != "" {
		a.Name = in.Name
	}
	writeJSON(w, http.StatusOK, userBody(a))
}

func (s *Server) verifyEmail(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Code string `json:"verification_code"`
	}
	if !decode(r, &in) || in.Code == "" {
		writeDetail(w, http.StatusBadRequest, "Verification code required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.VerifyCode != "" && a.VerifyCode == in.Code {
			a.Verified = true
			a.VerifyCode = ""
			writeJSON(w, http.StatusOK, map[string]string{"message": "Email verified successfully"})
			return
		}
	}
	writeDetail(w, http.StatusBadRequest, "Invalid or expired verification code")
}

func (s *Server) resendVerification(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	if !decode(r, &in) {
		writeDetail(w, http.StatusBadRequest, "Malformed request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accounts[strings.ToLower(in.Email)]
	if a == nil {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	if a.Verified {
		writeDetail(w, http.StatusBadRequest, "Email already verified")
		return
	}
	a.VerifyCode = s.nextCodeLocked("verify")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Verification email sent"})
}

func (s *Server) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	if !decode(r, &in) {
		writeDetail(w, http.StatusBadRequest, "Malformed request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if a := s.accounts[strings.ToLower(in.Email)]; a != nil {
		a.ResetCode = s.nextCodeLocked("reset")
	}
	// Same answer for unknown accounts so addresses cannot be probed.
	writeJSON(w, http.StatusOK, map[string]string{"message": "If the email exists, a reset code has been sent"})
}

func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Code        string `json:"reset_code"`
		NewPassword string `json:"new_password"`
	}
	if !decode(r, &in) || in.Code == "" {
		writeDetail(w, http.StatusBadRequest, "Reset code required")
		return
	}
	if len(in.NewPassword) < 8 {
		writeDetail(w, http.StatusBadRequest, "Password must be at least 8 characters long")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.ResetCode != "" && a.ResetCode == in.Code {
			a.Password = in.NewPassword
			a.ResetCode = ""
			a.refreshJTI = ""
			writeJSON(w, http.StatusOK, map[string]string{"message": "Password reset successfully"})
			return
		}
	}
	writeDetail(w, http.StatusBadRequest, "Invalid or expired reset code")
}
