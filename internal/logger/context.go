package logger

import "context"

type jobKey struct{}

// WithJobID tags ctx so every line logged with it carries the job identifier
func WithJobID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, jobKey{}, id)
}

// JobID returns the job identifier attached to ctx, if any
func JobID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(jobKey{}).(string)
	return id
}
