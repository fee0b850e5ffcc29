package testsupport

import (
	"testing"

	"prism/internal/config"
	"prism/internal/keystore"
)

// MustOpenStore opens a keystore.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *keystore.Store {
	t.Helper()

	store, err := keystore.Open(cfg)
	if err != nil {
		t.Fatalf("keystore.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
