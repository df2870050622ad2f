package search

import (
	"fmt"
	"regexp"

	"github.com/kailas-cloud/tagseek/internal/domain"
)

// DefaultSession is the session used when the caller names none.
const DefaultSession = "default"

var sessionName = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,64}$`)

// ValidateSessionName rejects names that cannot be embedded in a store key.
func ValidateSessionName(name string) error {
	if !sessionName.MatchString(name) {
		return fmt.Errorf("%w: %q (want 1-64 of [A-Za-z0-9_.-])", domain.ErrInvalidSession, name)
	}
	return nil
}

// Keys are the store keys holding one session's persisted collections.
type Keys struct {
	Filters string
	History string
	Saved   string
}

// KeysFor namespaces a session's keys under prefix.
func KeysFor(prefix, session string) Keys {
	base := prefix + "session:" + session + ":"
	return Keys{
		Filters: base + "filters",
		History: base + "history",
		Saved:   base + "saved",
	}
}
