package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// claims is the JWT payload minted on login and register.
type claims struct {
	UserID   string   `json:"userId"`
	Email    string   `json:"email"`
	FullName string   `json:"fullName"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

func (srv *server) mintToken(u *user) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID:   u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Roles:    u.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(srv.tokenTTL)),
		},
	})
	return token.SignedString(srv.jwtSecret)
}

func (srv *server) credentialsResponse(w http.ResponseWriter, u *user) {
	token, err := srv.mintToken(u)
	if err != nil {
		jsonError(w, "failed to issue token", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":    token,
		"userId":   u.ID,
		"email":    u.Email,
		"fullName": u.FullName,
		"roles":    u.Roles,
	})
}

func (srv *server) registerHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request", http.StatusBadRequest)
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Email == "" || req.FullName == "" {
		jsonError(w, "fullName and email are required", http.StatusBadRequest)
		return
	}
	if len(req.Password) < 6 {
		jsonError(w, "password must be at least 6 characters long", http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, "failed to hash password", http.StatusInternalServerError)
		return
	}

	roles := []string{"customer"}
	if _, ok := srv.adminEmails[req.Email]; ok {
		roles = append(roles, "admin")
	}

	u, created := srv.store.createUser(req.Email, req.FullName, hash, roles)
	if !created {
		jsonError(w, "an account with this email already exists", http.StatusConflict)
		return
	}
	srv.log.WithField("user_id", u.ID).Info("user registered")
	srv.credentialsResponse(w, u)
}

func (srv *server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request", http.StatusBadRequest)
		return
	}

	u, ok := srv.store.findUser(strings.ToLower(strings.TrimSpace(req.Email)))
	if !ok {
		jsonError(w, "invalid email or password", http.StatusUnauthorized)
		return
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(req.Password)); err != nil {
		jsonError(w, "invalid email or password", http.StatusUnauthorized)
		return
	}
	srv.credentialsResponse(w, u)
}
