package domain

import (
	"strings"
	"time"
)

// Researcher is the root identity entity. The channel name is the sole
// authentication principal; the public key is resolved from the ledger at
// registration time and is never client-writable afterwards.
type Researcher struct {
	ID          string
	ChannelName string
	FullName    string
	Email       string
	PublicKey   string
	JoinedAt    time.Time
}

// ValidChannelName reports whether name looks like a ledger channel name.
// Channel claims always start with "@".
func ValidChannelName(name string) bool {
	if !strings.HasPrefix(name, "@") {
		return false
	}
	if len(name) < 2 || len(name) > 255 {
		return false
	}
	return !strings.ContainsAny(name[1:], " \t\n/\\")
}
