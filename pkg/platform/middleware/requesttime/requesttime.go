// Package requesttime pins the ledger snapshot a request is evaluated
// against. Every claim in one request sees the same "now" and chain id.
package requesttime

import (
	"net/http"
	"strconv"
	"time"

	dErrors "caguard/pkg/domain-errors"
	"caguard/pkg/platform/httputil"
	"caguard/pkg/requestcontext"
)

// Headers a host uses to pass its block time (unix seconds) and chain id.
const (
	HeaderBlockTime = "X-Block-Time"
	HeaderChainID   = "X-Chain-Id"
)

// Middleware stores the request's block time (or the wall clock when the
// header is absent) and optional chain id in the context.
func Middleware(next http.Handler) http.Handler {
	return MiddlewareWithClock(time.Now)(next)
}

func MiddlewareWithClock(now func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			at := now().UTC()
			if raw := r.Header.Get(HeaderBlockTime); raw != "" {
				secs, err := strconv.ParseInt(raw, 10, 64)
				if err != nil || secs <= 0 {
					httputil.WriteError(w, dErrors.Newf(dErrors.CodeBadRequest, "%s must be positive unix seconds", HeaderBlockTime))
					return
				}
				at = time.Unix(secs, 0).UTC()
			}
			ctx = requestcontext.WithTime(ctx, at)

			if raw := r.Header.Get(HeaderChainID); raw != "" {
				id, err := strconv.ParseInt(raw, 10, 64)
				if err != nil {
					httputil.WriteError(w, dErrors.Newf(dErrors.CodeBadRequest, "%s must be an integer", HeaderChainID))
					return
				}
				ctx = requestcontext.WithChainID(ctx, id)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
