package handler

import "time"

// metaData is the envelope header carried by every API response.
type metaData struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// envelope is the canonical response shape. Exactly one of the optional
// fields is populated depending on the endpoint.
type envelope struct {
	MetaData     metaData `json:"metaData"`
	Result       any      `json:"result,omitempty"`
	Token        string   `json:"token,omitempty"`
	RefreshToken string   `json:"refreshToken,omitempty"`
	AccessToken  string   `json:"accessToken,omitempty"`
}

func okEnvelope(status int, message string) envelope {
	return envelope{MetaData: metaData{Success: true, Message: message, Status: status}}
}

func errEnvelope(status int, message string) envelope {
	return envelope{MetaData: metaData{Success: false, Message: message, Status: status}}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type createUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
