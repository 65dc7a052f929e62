package ipc

import (
	"errors"
	"log"
	"net"
	"os"
	"time"
)

func logf(format string, args ...any) {
	log.Printf("[ipc] "+format, args...)
}

// staleSocket removes socketPath when it is a socket nobody listens on and
// reports whether it did.
func staleSocket(socketPath string) bool {
	info, err := os.Lstat(socketPath)
	if err != nil || info.Mode()&os.ModeSocket == 0 {
		return false
	}
	conn, err := net.DialTimeout("unix", socketPath, 200*time.Millisecond)
	if err == nil {
		conn.Close()
		return false
	}
	if err := os.Remove(socketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		logf("remove stale socket %s: %v", socketPath, err)
		return false
	}
	logf("removed stale socket %s", socketPath)
	return true
}
