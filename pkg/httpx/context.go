package httpx

import "context"

type ctxKey string

const (
	// CtxKeyUserID holds the authenticated caller's user id (string).
	CtxKeyUserID ctxKey = "user_id"
	// CtxKeyUser holds the resolved user record; the concrete type is
	// owned by the application's http layer.
	CtxKeyUser ctxKey = "user"
)

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}
