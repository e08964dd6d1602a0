package audit

import (
	"context"
)

// RequestInfo is the ambient request data copied into every entry recorded while serving the request
type RequestInfo struct {
	ActorID   *uint
	ActorName string
	Role      string
	Method    string
	Path      string
	ClientIP  string
	UserAgent string
}

type requestInfoKey struct{}

// WithRequestInfo attaches request data to ctx
func WithRequestInfo(ctx context.Context, info RequestInfo) context.Context {
	return context.WithValue(ctx, requestInfoKey{}, info)
}

// RequestInfoFrom returns the request data attached to ctx, if any
func RequestInfoFrom(ctx context.Context) (RequestInfo, bool) {
	info, ok := ctx.Value(requestInfoKey{}).(RequestInfo)
	return info, ok
}

// WithActor returns a copy of ctx whose request data names the authenticated actor
func WithActor(ctx context.Context, id uint, name, role string) context.Context {
	info, _ := RequestInfoFrom(ctx)
	info.ActorID = &id
	info.ActorName = name
	info.Role = role
	return WithRequestInfo(ctx, info)
}
