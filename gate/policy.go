package gate

import "context"

// Policy holds the record level rule of one resource type, for instance
// "an entreprise edits only its own job offers". The gate consults it after
// the role check and only when a record is at hand, so list and create
// requests never reach it.
type Policy[U any] interface {
	Can(ctx context.Context, user U, action Action, resource any) bool
}
