package identity

import "context"

type ctxKey struct{}

// NewContext returns a copy of ctx carrying the verified caller uid.
func NewContext(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, ctxKey{}, uid)
}

// FromContext returns the caller uid stored by NewContext.
func FromContext(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(ctxKey{}).(string)
	return uid, ok && uid != ""
}
