package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// stubService is an in-process account service used when no real target is
// given. It signs short-lived access credentials so the renewal path gets
// exercised under load, not just the happy path.
type stubService struct {
	secret    []byte
	accessTTL time.Duration

	mu      sync.Mutex
	refresh map[string]string
}

func newStubService(accessTTL time.Duration) *stubService {
	return &stubService{
		secret:    []byte("loadtest-" + uuid.NewString()),
		accessTTL: accessTTL,
		refresh:   map[string]string{},
	}
}

const stubPassword = "load-test-pass"

type stubCredentials struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	RefreshToken string `json:"refreshToken"`
}

type stubTokenReply struct {
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	Token        string `json:"token,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

type stubUser struct {
	ID    int64    `json:"id"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

type stubError struct {
	Message string `json:"message"`
}

func (s *stubService) issue(subject string) (string, string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   subject,
		"roles": []string{"ROLE_USER"},
		"iat":   now.Unix(),
		"exp":   now.Add(s.accessTTL).Unix(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", "", err
	}

	refresh := uuid.NewString()
	s.mu.Lock()
	s.refresh[refresh] = subject
	s.mu.Unlock()
	return access, refresh, nil
}

func (s *stubService) subjectFor(bearer string) (string, bool) {
	parsed, err := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"})).Parse(bearer, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", false
	}
	subject, err := parsed.Claims.GetSubject()
	if err != nil {
		return "", false
	}
	return subject, true
}

func (s *stubService) handler() http.Handler {
	mux := http.NewServeMux()

	exchange := func(w http.ResponseWriter, r *http.Request) {
		var req stubCredentials
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
			writeJSON(w, http.StatusBadRequest, stubError{Message: "Validation failed"})
			return
		}
		if req.Password != stubPassword {
			writeJSON(w, http.StatusUnauthorized, stubError{Message: "Invalid email or password"})
			return
		}
		access, refresh, err := s.issue(req.Email)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, stubError{Message: "signing failed"})
			return
		}
		writeJSON(w, http.StatusOK, stubTokenReply{Success: true, Token: access, RefreshToken: refresh})
	}
	mux.HandleFunc("POST /users/login", exchange)
	mux.HandleFunc("POST /users/register", exchange)

	mux.HandleFunc("POST /users/refresh", func(w http.ResponseWriter, r *http.Request) {
		var req stubCredentials
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, stubError{Message: "Validation failed"})
			return
		}
		s.mu.Lock()
		subject, ok := s.refresh[req.RefreshToken]
		s.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusUnauthorized, stubError{Message: "Invalid refresh token"})
			return
		}
		now := time.Now()
		claims := jwt.MapClaims{
			"sub":   subject,
			"roles": []string{"ROLE_USER"},
			"iat":   now.Unix(),
			"exp":   now.Add(s.accessTTL).Unix(),
		}
		access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, stubError{Message: "signing failed"})
			return
		}
		writeJSON(w, http.StatusOK, stubTokenReply{Success: true, Token: access})
	})

	mux.HandleFunc("/users/", func(w http.ResponseWriter, r *http.Request) {
		const prefix = "Bearer "
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, prefix) {
			writeJSON(w, http.StatusUnauthorized, stubError{Message: "Missing token"})
			return
		}
		subject, ok := s.subjectFor(auth[len(prefix):])
		if !ok {
			writeJSON(w, http.StatusUnauthorized, stubError{Message: "Expired or invalid token"})
			return
		}
		writeJSON(w, http.StatusOK, stubUser{ID: 1, Email: subject, Roles: []string{"ROLE_USER"}})
	})

	return mux
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
