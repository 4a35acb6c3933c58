package requestdata

import (
	"context"

	"github.com/google/uuid"
)

type requestDataKey struct{}

// RequestData carries the verified external identity for one request.
// UserID stays uuid.Nil until a handler resolves the identity to a user row.
type RequestData struct {
	ExternalIdentityID string
	Email              string
	Name               string
	Avatar             string
	EmailVerified      bool
	UserID             uuid.UUID
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	val := ctx.Value(requestDataKey{})
	if rd, ok := val.(*RequestData); ok {
		return rd
	}
	return nil
}
