// Package ui launches the terminal interface.
package ui

import (
	"context"
	"errors"

	"tableflip.dev/soulsync/pkg/app"
	"tableflip.dev/soulsync/pkg/reply"
	"tableflip.dev/soulsync/pkg/speech"
	"tableflip.dev/soulsync/pkg/store"
	"tableflip.dev/soulsync/pkg/tui/shell"
)

type UI struct {
	Settings *store.Settings
	App      *app.Service
	// ExportDir overrides where the settings view writes exports.
	ExportDir string
	// Offline skips the reply service and answers locally.
	Offline bool
}

func (u *UI) Do(_ context.Context) error {
	if u.App == nil || u.Settings == nil {
		return errors.New("can not start ui, no persistence")
	}
	tr, err := speech.New(u.Settings.SpeechCommand)
	if err != nil {
		return err
	}
	opts := shell.Options{
		Settings:    *u.Settings,
		Transcriber: tr,
		ExportDir:   u.ExportDir,
	}
	if !u.Offline {
		opts.Remote = reply.NewRemote(u.Settings.ReplyEndpoint, u.Settings.ReplyModel, u.Settings.ReplyTimeout)
	}
	return shell.Run(u.App, opts)
}
