package api

import (
	"context"
)

type keyType string

const callerIDKey keyType = "callerID"

// ctxWithCaller records the verified admin subject for the handlers
// downstream of the session gate.
func ctxWithCaller(ctx context.Context, callerID string) context.Context {
	return context.WithValue(ctx, callerIDKey, callerID)
}

// CallerID returns the verified subject id, empty outside guarded routes.
func CallerID(ctx context.Context) string {
	if v, ok := ctx.Value(callerIDKey).(string); ok {
		return v
	}
	return ""
}
