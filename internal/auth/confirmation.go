package auth

import (
	"context"
	"errors"

	"contactbook/internal/user"
)

// ConfirmationResult distinguishes a first-time confirmation from the
// idempotent repeat case. AlreadyConfirmed is an outcome, not an error.
type ConfirmationResult int

const (
	Confirmed ConfirmationResult = iota
	AlreadyConfirmed
)

// Confirmations issues and consumes email-confirmation tokens. An
// account's confirmed flag flips false -> true exactly once.
type Confirmations struct {
	users user.Repository
	codec *Codec
}

func NewConfirmations(users user.Repository, codec *Codec) *Confirmations {
	return &Confirmations{users: users, codec: codec}
}

// IssueToken mints a confirmation token for email. Side-effect free;
// delivering it is the caller's job.
func (c *Confirmations) IssueToken(email string) (string, error) {
	return c.codec.Issue(TokenConfirmation, email)
}

// Confirm consumes a confirmation token and marks its subject confirmed.
// A token that does not verify, or whose subject matches no account,
// fails with ErrInvalidConfirmationToken.
func (c *Confirmations) Confirm(ctx context.Context, tokenString string) (ConfirmationResult, error) {
	email, err := c.codec.Decode(tokenString, TokenConfirmation)
	if err != nil {
		return 0, ErrInvalidConfirmationToken
	}

	u, err := c.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return 0, ErrInvalidConfirmationToken
		}
		return 0, err
	}

	if u.Confirmed {
		return AlreadyConfirmed, nil
	}

	if err := c.users.ConfirmEmail(ctx, email); err != nil {
		return 0, err
	}
	return Confirmed, nil
}

// RequestToken issues a fresh confirmation token for an existing,
// unconfirmed account. For an already confirmed account it returns an
// empty token and performs no further action.
func (c *Confirmations) RequestToken(ctx context.Context, email string) (string, error) {
	u, err := c.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if u.Confirmed {
		return "", nil
	}
	return c.IssueToken(email)
}
