package cmd

import (
	"errors"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

// isDBLockError returns true if the error chain contains a bbolt lock timeout.
// bbolt gives up with ErrTimeout when it cannot acquire the file lock within
// the configured deadline.
func isDBLockError(err error) bool {
	return errors.Is(err, bolt.ErrTimeout)
}

// diagnoseDBLock returns actionable guidance when a bbolt open fails due to
// lock contention. Only one pseudo process may hold the snapshot database.
func diagnoseDBLock(dbPath string) string {
	return fmt.Sprintf("snapshot database is locked by another process: %s\n"+
		"  → a running 'pseudo watch' or 'pseudo snapshot' may hold it\n"+
		"  → find the process:  ps aux | grep 'pseudo'\n"+
		"  → stop it, then retry your command", dbPath)
}
