package commands

import (
	"context"

	"tableflip.dev/soulsync/pkg/app"
	"tableflip.dev/soulsync/pkg/store"
	"tableflip.dev/soulsync/pkg/tui/theme"
)

// session loads the config and the stored state every command works on.
func session(ctx context.Context) (*store.Settings, *app.Service, error) {
	settings, err := store.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	defaultTheme := settings.Theme
	if defaultTheme == "" {
		defaultTheme = theme.Detect()
	}
	svc, err := app.Open(ctx, settings, defaultTheme)
	if err != nil {
		return nil, nil, err
	}
	return settings, svc, nil
}
