package domain

import "time"

// User models an account stored in the credential store. The password hash
// is never serialized.
type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TokenPayload is the claim set embedded in both access and refresh tokens.
type TokenPayload struct {
	ID       int
	Username string
}

// TokenPair is returned at login time. Neither token is persisted
// server-side; both are self-verifying.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Principal is the identity attached to a request once its bearer token has
// been verified.
type Principal struct {
	ID       int
	Username string
}
