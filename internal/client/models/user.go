// Package models defines client-side data models mirroring the API payloads.
package models

import "time"

// User is the profile record as cached client-side. Email is only present on
// the authenticated user's own record; public profiles omit it.
type User struct {
	Id        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
