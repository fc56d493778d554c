package goAuthClient

// Wire payloads for the remote account service. Field names follow the
// service contract and are load-bearing for compatibility.

type credentialRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	Token        string `json:"token,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

type serverError struct {
	Timestamp        string            `json:"timestamp,omitempty"`
	Status           int               `json:"status,omitempty"`
	Error            string            `json:"error,omitempty"`
	Message          string            `json:"message,omitempty"`
	Path             string            `json:"path,omitempty"`
	ValidationErrors map[string]string `json:"validationErrors,omitempty"`
	TraceID          string            `json:"traceId,omitempty"`
}

// User defines a public type used by goAuthClient APIs.
//
// User instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type User struct {
	ID            int64    `json:"id"`
	Email         string   `json:"email"`
	Roles         []string `json:"roles"`
	AccountLocked bool     `json:"accountLocked"`
	CreatedAt     string   `json:"createdAt,omitempty"`
	UpdatedAt     string   `json:"updatedAt,omitempty"`
}

// UserUpdate defines a public type used by goAuthClient APIs.
//
// UserUpdate instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// Password and Role are optional; empty values are omitted from the request
// so the server leaves them unchanged.
type UserUpdate struct {
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role,omitempty"`
}
