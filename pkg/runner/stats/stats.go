// Package stats prints the mood analytics summary.
package stats

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/soulsync/pkg/analytics"
	"tableflip.dev/soulsync/pkg/app"
	"tableflip.dev/soulsync/pkg/printers"
)

type Stats struct {
	App    *app.Service
	Window string
	JSON   bool
	Out    io.Writer
}

func (s *Stats) Do(_ context.Context) error {
	if s.App == nil {
		return errors.New("can not compute stats, no persistence")
	}
	days, _, err := analytics.ParseWindow(s.Window)
	if err != nil {
		return err
	}
	summary := s.App.Analytics(days)
	if s.JSON {
		return printers.JSON(s.Out, summary)
	}
	pp := printers.PrettyPrint{Out: s.Out}
	pp.Summary(summary)
	return nil
}
