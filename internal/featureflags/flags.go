package featureflags

import (
	"os"
	"strings"
)

// Flags currently honored by the binary.
const (
	AuditTrail    = "audit"
	OverdueWorker = "overdue_worker"
)

// Enabled returns true if a flag is enabled via environment variable.
// Flags are read from env as FLAG_<NAME>=true/1/yes/on (case-insensitive).
func Enabled(name string) bool {
	v := os.Getenv("FLAG_" + strings.ToUpper(name))
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
