package models

// Login represents the credentials submitted for user login.
type Login struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ResendVerification asks for a fresh verification e-mail.
type ResendVerification struct {
	Email string `json:"email" validate:"required,email"`
}

// LoginResult is returned under "data" by a successful login.
type LoginResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
