// Package entity holds the caller-owned records the engine searches.
package entity

import "slices"

// Entity is a tagged, content-bearing record. It is an immutable value: the engine never
// modifies it, and relevance scores live beside it in result.Result.
type Entity struct {
	id         string
	tags       []string
	content    string
	createdAt  int64
	hasCreated bool
	updatedAt  int64
	hasUpdated bool
}

// New creates an Entity. content is a base64 blob; an empty string means no content.
func New(id string, tags []string, content string) Entity {
	return Entity{id: id, tags: slices.Clone(tags), content: content}
}

// WithCreatedAt returns a copy carrying a creation time in nanoseconds since the epoch.
func (e Entity) WithCreatedAt(ns int64) Entity {
	e.createdAt, e.hasCreated = ns, true
	return e
}

// WithUpdatedAt returns a copy carrying an update time in nanoseconds since the epoch.
func (e Entity) WithUpdatedAt(ns int64) Entity {
	e.updatedAt, e.hasUpdated = ns, true
	return e
}

// ID returns the entity identifier.
func (e Entity) ID() string { return e.id }

// Tags returns a copy of the raw tags, timestamp prefixes included.
func (e Entity) Tags() []string { return slices.Clone(e.tags) }

// Content returns the encoded content blob.
func (e Entity) Content() string { return e.content }

// HasContent reports whether the entity carries a content blob.
func (e Entity) HasContent() bool { return e.content != "" }

// CreatedAt returns the creation time in nanoseconds and whether it is set.
func (e Entity) CreatedAt() (int64, bool) { return e.createdAt, e.hasCreated }

// UpdatedAt returns the update time in nanoseconds and whether it is set.
func (e Entity) UpdatedAt() (int64, bool) { return e.updatedAt, e.hasUpdated }

// Equal compares persistent fields only.
func (e Entity) Equal(o Entity) bool {
	return e.id == o.id &&
		slices.Equal(e.tags, o.tags) &&
		e.content == o.content &&
		e.hasCreated == o.hasCreated && e.createdAt == o.createdAt &&
		e.hasUpdated == o.hasUpdated && e.updatedAt == o.updatedAt
}
