package ctxutil

import "context"

type requestDataKey struct{}

// RequestData is what the auth middleware learns about the caller.
type RequestData struct {
	TokenString string
	UserID      uint
	IsStaff     bool
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// CurrentUserID returns 0 for anonymous callers.
func CurrentUserID(ctx context.Context) uint {
	if rd := GetRequestData(ctx); rd != nil {
		return rd.UserID
	}
	return 0
}
