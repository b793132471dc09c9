package regstore

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/avolkov/doorkeeper/internal/domain/registry"
)

// ValkeyStore persists user records in a Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "user"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) Get(ctx context.Context, email string) (string, bool, error) {
	cmd := s.client.B().Get().Key(s.recordKey(email)).Build()
	hash, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return hash, true, nil
}

func (s *ValkeyStore) Put(ctx context.Context, email, hash string) error {
	cmd := s.client.B().Set().Key(s.recordKey(email)).Value(hash).Build()
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) recordKey(email string) string {
	return fmt.Sprintf("%s:%s", s.prefix, email)
}

var _ registry.Store = (*ValkeyStore)(nil)
