package registry

import "context"

// Store abstracts the external key-value service holding user records.
// Keys are normalized emails, values are password hashes. The backend owns
// consistency; Put does not guard against concurrent writers.
type Store interface {
	Get(ctx context.Context, email string) (hash string, found bool, err error)
	Put(ctx context.Context, email, hash string) error
}
