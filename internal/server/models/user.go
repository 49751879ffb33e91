// Package models defines the server's data models and the validated input
// payloads the HTTP surface accepts.
package models

import "time"

type User struct {
	Id        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=40,excludesall=~%^;'<>"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type CheckUsernameInput struct {
	Username string `json:"username" validate:"required,min=3,max=40,excludesall=~%^;'<>"`
}

type ProfileUpdateInput struct {
	Name string `validate:"max=40"`
	Bio  string `validate:"max=160"`
}
