package auth

import (
	"context"
	"errors"

	"storefront-bff/internal/session"
)

type ctxKey int

const (
	ctxSessionID ctxKey = iota
	ctxUser
)

func WithIdentity(ctx context.Context, sessionID string, u *session.User) context.Context {
	ctx = context.WithValue(ctx, ctxSessionID, sessionID)
	ctx = context.WithValue(ctx, ctxUser, u)
	return ctx
}

func SessionID(ctx context.Context) (string, error) {
	if s, ok := ctx.Value(ctxSessionID).(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("session id not in context")
}

func UserFromContext(ctx context.Context) (*session.User, error) {
	if u, ok := ctx.Value(ctxUser).(*session.User); ok && u != nil {
		return u, nil
	}
	return nil, errors.New("user not in context")
}
