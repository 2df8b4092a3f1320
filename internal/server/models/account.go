// Package models defines server-side data models persisted in the database.
package models

import "time"

// Phone is a contact number owned by exactly one account. Phones are stored
// and removed together with their account.
type Phone struct {
	Number      string
	CityCode    string
	CountryCode string
}

// Account is a registered user.
type Account struct {
	// ID is assigned by the store on first save and never changes.
	ID    string
	Email string
	Name  string
	// Password holds the protected (encrypted) form, never plaintext.
	Password  string
	Phones    []Phone
	CreatedAt time.Time
	LastLogin *time.Time
	Active    bool

	// Token is the most recently issued bearer token. It is not persisted.
	Token string
}

// IsNew reports whether the account has not been saved yet.
func (a *Account) IsNew() bool {
	return a.ID == ""
}

// Clone returns a deep copy so callers cannot alias stored phones or
// timestamps.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	c := *a
	if a.Phones != nil {
		c.Phones = make([]Phone, len(a.Phones))
		copy(c.Phones, a.Phones)
	}
	if a.LastLogin != nil {
		t := *a.LastLogin
		c.LastLogin = &t
	}
	return &c
}

// Candidate is the input to registration: what the client submitted, with
// the password still in plaintext.
type Candidate struct {
	Email    string
	Name     string
	Password string
	Phones   []Phone
}
