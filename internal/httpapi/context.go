package httpapi

import (
	"context"

	"github.com/rpattn/verge/internal/domain"
)

type contextKey string

const (
	requestVersionKey     contextKey = "requestVersion"
	requestVersionNoteKey contextKey = "requestVersionNote"
)

// versionNote lets middleware stacked outside the version selector observe
// the version resolved further down the handler chain. WithContext hands a
// request copy to the inner handlers only, so the outer layers need a shared
// cell instead of the context value itself.
type versionNote struct {
	key domain.VersionKey
}

// withVersionNote plants an empty note for ContextWithVersion to fill.
func withVersionNote(ctx context.Context) context.Context {
	return context.WithValue(ctx, requestVersionNoteKey, &versionNote{})
}

// notedVersion reads the note planted by an outer middleware.
func notedVersion(ctx context.Context) (domain.VersionKey, bool) {
	note, ok := ctx.Value(requestVersionNoteKey).(*versionNote)
	if !ok || note.key == "" {
		return "", false
	}
	return note.key, true
}

// ContextWithVersion returns a new context carrying the resolved request
// version. It also fills the note of any outer middleware that planted one.
func ContextWithVersion(ctx context.Context, key domain.VersionKey) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if note, ok := ctx.Value(requestVersionNoteKey).(*versionNote); ok {
		note.key = key
	}
	return context.WithValue(ctx, requestVersionKey, key)
}

// VersionFromContext retrieves the resolved request version, if any.
func VersionFromContext(ctx context.Context) (domain.VersionKey, bool) {
	if ctx == nil {
		return "", false
	}
	value := ctx.Value(requestVersionKey)
	if value == nil {
		return "", false
	}
	key, ok := value.(domain.VersionKey)
	if !ok || key == "" {
		return "", false
	}
	return key, true
}
