package api

import (
	"context"

	"github.com/akshay-builds/techkart/models"
)

type keyType string

const userKey keyType = "user"

// ctxWithUser stores the resolved session user on the request context
func ctxWithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// ctxGetUser returns the session user, or nil for anonymous visitors
func ctxGetUser(ctx context.Context) *models.User {
	if user, ok := ctx.Value(userKey).(*models.User); ok {
		return user
	}
	return nil
}
