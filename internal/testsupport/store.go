package testsupport

import (
	"testing"

	"bleeper/internal/config"
	"bleeper/internal/transcriptcache"
)

// MustOpenCacheStore opens the transcript cache for cfg and registers cleanup.
func MustOpenCacheStore(t testing.TB, cfg *config.Config) *transcriptcache.Store {
	t.Helper()

	store, err := transcriptcache.Open(cfg.CacheDBPath())
	if err != nil {
		t.Fatalf("open transcript cache: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
