package app

import (
	"context"

	"tableflip.dev/soulsync/pkg/store"
)

// Open loads the store at cfg and the service state over it. defaultTheme is
// used when no theme was ever saved.
func Open(ctx context.Context, cfg store.Config, defaultTheme string) (*Service, error) {
	p, err := store.Load(cfg)
	if err != nil {
		return nil, err
	}
	svc := New(p)
	if err := svc.Load(ctx, defaultTheme); err != nil {
		return nil, err
	}
	return svc, nil
}
