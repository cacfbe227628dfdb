// Package requestcontext provides transport-independent accessors for
// call-scoped values.
//
// A guardian-gated mutation runs against one ledger snapshot: the block time
// and chain id must be identical for every claim verified within the call.
// Hosts inject them once; verifiers read them.
//
//	ctx = requestcontext.WithTime(ctx, blockTime)
//	ctx = requestcontext.WithChainID(ctx, chainID)
//	now := requestcontext.Now(ctx)
package requestcontext

import (
	"context"
	"time"
)

type (
	requestIDKey   struct{}
	requestTimeKey struct{}
	chainIDKey     struct{}
)

// Exported context keys for direct use in tests that need context.WithValue.
var (
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
	ContextKeyChainID     = chainIDKey{}
)

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the call-scoped time (the ledger block time) from context.
// Falls back to time.Now() if not set.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}

// ChainID retrieves the current chain id. The second result is false when the
// host did not provide one.
func ChainID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ContextKeyChainID).(int64)
	return id, ok
}

// WithChainID injects the current chain id into a context.
func WithChainID(ctx context.Context, chainID int64) context.Context {
	return context.WithValue(ctx, ContextKeyChainID, chainID)
}
