package badger

import (
	"strings"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// zapAdapter routes badger's printf-style logging into zap.
type zapAdapter struct {
	log *zap.SugaredLogger
}

var _ badger.Logger = (*zapAdapter)(nil)

func (a *zapAdapter) Errorf(msg string, args ...any)   { a.log.Errorf(trim(msg), args...) }
func (a *zapAdapter) Warningf(msg string, args ...any) { a.log.Warnf(trim(msg), args...) }
func (a *zapAdapter) Infof(msg string, args ...any)    { a.log.Infof(trim(msg), args...) }
func (a *zapAdapter) Debugf(msg string, args ...any)   { a.log.Debugf(trim(msg), args...) }

// badger terminates its messages with a newline; zap adds its own.
func trim(msg string) string { return strings.TrimRight(msg, "\n") }
