package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/secretkeeper/internal/common"
	"github.com/dmitrijs2005/secretkeeper/internal/server/models"
)

// credentialsRequest accepts the address in "email" and, for older
// clients, in "username".
type credentialsRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *credentialsRequest) identifier() string {
	if r.Email != "" {
		return r.Email
	}
	return r.Username
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email}
}

// sessionResponse carries expires_at so clients can drop a stale token
// without decoding it.
type sessionResponse struct {
	Success   bool         `json:"success"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type secretResponse struct {
	ID     int64  `json:"secret_id"`
	Secret string `json:"secret"`
}

type secretsResponse struct {
	Secrets []secretResponse `json:"secrets"`
}

type submitRequest struct {
	Secret   string     `json:"secret"`
	SecretID optionalID `json:"secretId"`
}

type submitResponse struct {
	Success  bool  `json:"success"`
	SecretID int64 `json:"secret_id"`
}

type deleteRequest struct {
	SecretID optionalID `json:"secretId"`
}

type exportResponse struct {
	Success   bool      `json:"success"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// optionalID is a secret id sent as a number or a numeric string. null and
// "" leave it unset.
type optionalID struct {
	Value *int64
}

func (o *optionalID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) || bytes.Equal(b, []byte(`""`)) {
		o.Value = nil
		return nil
	}

	var raw json.RawMessage = b
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		raw = json.RawMessage(s)
	}

	v, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: secretId must be an integer", common.ErrorValidation)
	}
	o.Value = &v
	return nil
}
