package models

type User struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Avatar *string `json:"avatar,omitempty"`
	Bio    *string `json:"bio,omitempty"`
}

// LoginRequest is the mocked sign-in payload. There is no password: the
// email identifies the user and a new one is created on first login.
type LoginRequest struct {
	Name  string `json:"name" validate:"max=80"`
	Email string `json:"email" validate:"required,email"`
}

type UpdateProfileRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=1,max=80"`
	Avatar *string `json:"avatar" validate:"omitempty,url"`
	Bio    *string `json:"bio" validate:"omitempty,max=500"`
}

type AuthTokens struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	User        *User  `json:"user"`
}
