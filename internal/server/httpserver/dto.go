package httpserver

import (
	"time"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
)

// PhoneDTO is one phone entry of a sign-up request or login response.
type PhoneDTO struct {
	Number      string `json:"number" binding:"required,numeric"`
	CityCode    string `json:"cityCode" binding:"required,numeric"`
	CountryCode string `json:"countryCode" binding:"required,numeric"`
}

// SignUpRequest is the body of POST /app/sign-up.
type SignUpRequest struct {
	Name     string     `json:"name" binding:"omitempty,min=3,max=20"`
	Email    string     `json:"email" binding:"required,email"`
	Password string     `json:"password" binding:"required,password"`
	Phones   []PhoneDTO `json:"phones" binding:"omitempty,dive"`
}

func (r *SignUpRequest) candidate() *models.Candidate {
	c := &models.Candidate{
		Email:    r.Email,
		Name:     r.Name,
		Password: r.Password,
	}
	for _, p := range r.Phones {
		c.Phones = append(c.Phones, models.Phone{Number: p.Number, CityCode: p.CityCode, CountryCode: p.CountryCode})
	}
	return c
}

// SignUpResponse never echoes the password, email, name or phones.
type SignUpResponse struct {
	ID        string     `json:"id"`
	Created   time.Time  `json:"created"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	Token     string     `json:"token"`
	IsActive  bool       `json:"isActive"`
}

func newSignUpResponse(a *models.Account) SignUpResponse {
	return SignUpResponse{
		ID:        a.ID,
		Created:   a.CreatedAt,
		LastLogin: a.LastLogin,
		Token:     a.Token,
		IsActive:  a.Active,
	}
}

// LoginResponse carries the recovered plaintext password.
type LoginResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name,omitempty"`
	Email     string     `json:"email"`
	Password  string     `json:"password"`
	Phones    []PhoneDTO `json:"phones"`
	Created   time.Time  `json:"created"`
	LastLogin *time.Time `json:"lastLogin"`
	Token     string     `json:"token"`
	IsActive  bool       `json:"isActive"`
}

func newLoginResponse(r *services.LoginResult) LoginResponse {
	a := r.Account
	phones := make([]PhoneDTO, 0, len(a.Phones))
	for _, p := range a.Phones {
		phones = append(phones, PhoneDTO{Number: p.Number, CityCode: p.CityCode, CountryCode: p.CountryCode})
	}
	return LoginResponse{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Password:  r.Password,
		Phones:    phones,
		Created:   a.CreatedAt,
		LastLogin: a.LastLogin,
		Token:     a.Token,
		IsActive:  a.Active,
	}
}
