package test

import (
	"os"
	"testing"
)

// RequireEnv returns the value of an environment variable or skips the
// test when it is unset. Integration tests use it for credentials and
// endpoints that only exist in a configured environment.
func RequireEnv(t *testing.T, key string) string {
	t.Helper()
	v := os.Getenv(key)
	if v == "" {
		t.Skipf("%s not set, skipping", key)
	}
	return v
}
