package mailerrepo

import "context"

// Repo dispatches out-of-band mail. Delivery itself is the relay's
// problem; we only hand it the message.
type Repo interface {
	SendPasswordReset(ctx context.Context, email, resetLink string) error
}
