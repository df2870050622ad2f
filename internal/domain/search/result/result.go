package result

import "github.com/kailas-cloud/tagseek/internal/domain/entity"

// Result pairs an entity with its search score. The score lives beside the entity,
// never on it, so entity equality is unaffected by ranking.
type Result struct {
	entity entity.Entity
	score  float64
	scored bool
}

// New creates a scored result.
func New(e entity.Entity, score float64) Result {
	return Result{entity: e, score: score, scored: true}
}

// Unscored wraps an entity that was not ranked (empty query).
func Unscored(e entity.Entity) Result {
	return Result{entity: e}
}

// Entity returns the matched entity.
func (r Result) Entity() entity.Entity { return r.entity }

// Score returns the relevance score (0 when unscored).
func (r Result) Score() float64 { return r.score }

// Scored reports whether text search ran for this result.
func (r Result) Scored() bool { return r.scored }

// Entities projects results back to their entities.
func Entities(rs []Result) []entity.Entity {
	out := make([]entity.Entity, len(rs))
	for i, r := range rs {
		out[i] = r.entity
	}
	return out
}
