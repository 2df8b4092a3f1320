package client

import (
	"context"
	"time"
)

type Phone struct {
	Number      string `json:"number"`
	CityCode    string `json:"cityCode"`
	CountryCode string `json:"countryCode"`
}

// SignUpRequest is the account data sent on registration.
type SignUpRequest struct {
	Name     string  `json:"name,omitempty"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Phones   []Phone `json:"phones,omitempty"`
}

type SignUpResponse struct {
	ID        string     `json:"id"`
	Created   time.Time  `json:"created"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	Token     string     `json:"token"`
	IsActive  bool       `json:"isActive"`
}

// LoginResponse is the full account view returned by login, including the
// plaintext password and a fresh token.
type LoginResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name,omitempty"`
	Email     string     `json:"email"`
	Password  string     `json:"password"`
	Phones    []Phone    `json:"phones"`
	Created   time.Time  `json:"created"`
	LastLogin *time.Time `json:"lastLogin"`
	Token     string     `json:"token"`
	IsActive  bool       `json:"isActive"`
}

type Client interface {
	Ping(ctx context.Context) error
	SignUp(ctx context.Context, req *SignUpRequest) (*SignUpResponse, error)
	Login(ctx context.Context, token string) (*LoginResponse, error)
}
