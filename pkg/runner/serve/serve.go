// Package serve runs the bundled reply backend.
package serve

import (
	"context"

	"tableflip.dev/soulsync/pkg/server"
)

type Serve struct {
	Addr    string
	Config  server.Config
	Handler server.Completer
}

func (s *Serve) Do(ctx context.Context) error {
	upstream := s.Handler
	if upstream == nil {
		upstream = s.Config.Upstream()
	}
	return server.Run(ctx, s.Addr, server.NewRouter(upstream))
}
