package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// OutcomeKind tells what the validator concluded about one request.
type OutcomeKind int

const (
	// Anonymous: no Authorization header; the request continues without identity.
	Anonymous OutcomeKind = iota
	// Accepted: the token verified and Principal is set.
	Accepted
	// Rejected: a header was present but unusable; Reason wraps
	// common.ErrInvalidCredentials.
	Rejected
)

func (k OutcomeKind) String() string {
	switch k {
	case Anonymous:
		return "anonymous"
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Outcome is the result of validating one request.
type Outcome struct {
	Kind      OutcomeKind
	Principal *Principal
	Reason    error
}

func accepted(p *Principal) Outcome { return Outcome{Kind: Accepted, Principal: p} }

func rejected(cause error) Outcome {
	return Outcome{Kind: Rejected, Reason: fmt.Errorf("%w: %w", common.ErrInvalidCredentials, cause)}
}

// TokenValidator verifies bearer tokens minted by a TokenIssuer sharing the
// same TokenSettings. It holds no per-request state.
type TokenValidator struct {
	settings TokenSettings
	roles    RoleResolver
	parser   *jwt.Parser
}

// NewTokenValidator builds a validator. A nil roles resolver grants
// DefaultAuthority to everyone.
func NewTokenValidator(s TokenSettings, roles RoleResolver) (*TokenValidator, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	if roles == nil {
		roles = FixedRole(DefaultAuthority)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	return &TokenValidator{settings: s, roles: roles, parser: parser}, nil
}

// ValidateRequest inspects the Authorization header of r. A missing header
// yields Anonymous; anything else goes through ValidateHeader.
func (v *TokenValidator) ValidateRequest(r *http.Request) Outcome {
	values, present := r.Header[http.CanonicalHeaderKey(common.AuthorizationHeaderName)]
	if !present || len(values) == 0 {
		return Outcome{Kind: Anonymous}
	}
	return v.ValidateHeader(r.Context(), values[0])
}

// ValidateHeader checks one Authorization header value. The value must start
// with the exact, case-sensitive "Bearer " prefix; otherwise it is rejected
// before any signature work. Every failure collapses into a Rejected outcome.
func (v *TokenValidator) ValidateHeader(ctx context.Context, header string) Outcome {
	if len(header) < len(common.BearerPrefix) || header[:len(common.BearerPrefix)] != common.BearerPrefix {
		return rejected(common.ErrMalformedHeader)
	}
	raw := header[len(common.BearerPrefix):]

	claims := &Claims{}
	token, err := v.parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return v.settings.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return rejected(common.ErrTokenExpired)
		}
		return rejected(err)
	}
	if !token.Valid {
		return rejected(errors.New("token is not valid"))
	}

	subject := claims.Username
	if subject == "" {
		subject = claims.Subject
	}
	if subject == "" {
		return rejected(errors.New("token has no subject"))
	}

	authority, err := v.roles(ctx, subject)
	if err != nil {
		return rejected(fmt.Errorf("resolve role: %w", err))
	}

	return accepted(&Principal{Subject: subject, Authority: authority})
}
