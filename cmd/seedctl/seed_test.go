package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeedPairs(t *testing.T) {
	store := newStubStore()
	pairs := []seedPair{
		{Key: "alice@example.com", Value: "hash-a"},
		{Key: "bob@example.com", Value: "hash-b"},
	}

	require.NoError(t, seedPairs(context.Background(), store, pairs))
	require.Equal(t, "hash-a", store.records["alice@example.com"])
	require.Equal(t, "hash-b", store.records["bob@example.com"])
}

func TestSeedPairsAbortsOnFirstFailure(t *testing.T) {
	store := newStubStore()
	store.failKey = "bob@example.com"
	pairs := []seedPair{
		{Key: "alice@example.com", Value: "hash-a"},
		{Key: "bob@example.com", Value: "hash-b"},
		{Key: "carol@example.com", Value: "hash-c"},
	}

	err := seedPairs(context.Background(), store, pairs)
	require.Error(t, err)
	require.Contains(t, err.Error(), `seed "bob@example.com"`)
	require.Contains(t, err.Error(), "write refused")

	// no rollback: the key written before the failure stays written, and
	// nothing after it is attempted
	require.Equal(t, "hash-a", store.records["alice@example.com"])
	require.NotContains(t, store.records, "bob@example.com")
	require.NotContains(t, store.records, "carol@example.com")
}

type stubStore struct {
	records map[string]string
	failKey string
}

func newStubStore() *stubStore {
	return &stubStore{records: make(map[string]string)}
}

func (s *stubStore) Get(_ context.Context, email string) (string, bool, error) {
	hash, ok := s.records[email]
	return hash, ok, nil
}

func (s *stubStore) Put(_ context.Context, email, hash string) error {
	if s.failKey != "" && email == s.failKey {
		return errors.New("write refused")
	}
	s.records[email] = hash
	return nil
}
