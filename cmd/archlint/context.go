package main

import (
	"context"
	"os"

	"github.com/archlint/archlint/analytics"
	"github.com/archlint/archlint/archlog"
)

type trackerContextKey struct{}

func withTracker(ctx context.Context, t *analytics.Tracker) context.Context {
	return context.WithValue(ctx, trackerContextKey{}, t)
}

func trackerFromContext(ctx context.Context) *analytics.Tracker {
	t, _ := ctx.Value(trackerContextKey{}).(*analytics.Tracker)
	return t
}

func isTTY(f *os.File) bool {
	return archlog.IsTTY(f)
}
