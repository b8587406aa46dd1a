package server

import (
	"net/http"

	"github.com/alexanderramin/weekplan/internal/contract"
	"github.com/alexanderramin/weekplan/internal/domain"
	"github.com/alexanderramin/weekplan/internal/service"
)

func authResponse(res *service.AuthResult) contract.AuthResponse {
	return contract.AuthResponse{
		AccessToken: res.Token,
		ExpiresAt:   res.ExpiresAt,
		User:        contract.UserToProfile(*res.User),
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body contract.RegisterRequest
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.auth.Register(r.Context(), domain.Registration{Email: body.Email, Password: body.Password, Name: body.Name})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse(res))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body contract.LoginRequest
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.auth.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse(res))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token, _ := r.Context().Value(tokenKey).(string)
	if err := s.auth.Logout(r.Context(), token); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	u, err := s.auth.Profile(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.UserToProfile(*u))
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var body contract.UpdateProfileRequest
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	u, err := s.auth.UpdateProfile(r.Context(), userID(r), domain.ProfilePatch{Email: body.Email, Name: body.Name})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.UserToProfile(*u))
}
