package auth

import (
	"context"
	"errors"
)

type ctxKey int

const (
	ctxClaims ctxKey = iota
)

var errNoIdentity = errors.New("identity not in context")

func WithClaims(ctx context.Context, cs ClaimSet) context.Context {
	return context.WithValue(ctx, ctxClaims, cs)
}

func ClaimsFrom(ctx context.Context) (ClaimSet, error) {
	if cs, ok := ctx.Value(ctxClaims).(ClaimSet); ok && cs.UserID != "" {
		return cs, nil
	}
	return ClaimSet{}, errNoIdentity
}

func UserID(ctx context.Context) (string, error) {
	cs, err := ClaimsFrom(ctx)
	if err != nil {
		return "", err
	}
	return cs.UserID, nil
}

func Status(ctx context.Context) (string, error) {
	cs, err := ClaimsFrom(ctx)
	if err != nil {
		return "", err
	}
	if cs.Status == "" {
		return "", errors.New("status not in context")
	}
	return cs.Status, nil
}
