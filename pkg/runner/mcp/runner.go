package mcp

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/soulsync/pkg/app"
	"tableflip.dev/soulsync/pkg/reply"
)

// Transport selects how the MCP server is exposed.
type Transport string

const (
	TransportHTTP  Transport = "http"
	TransportStdio Transport = "stdio"
)

const (
	DefaultAddr = "127.0.0.1:8090"
	DefaultPath = "/mcp"
)

// ErrTLSPair is returned when only one half of the TLS key pair is set.
var ErrTLSPair = errors.New("mcp: both tls cert and key must be provided")

// Runner serves the journal and chat over MCP.
type Runner struct {
	App     *app.Service
	Remote  reply.Replier
	Name    string
	Version string

	Transport Transport
	Addr      string
	Path      string
	TLSCert   string
	TLSKey    string

	// OnListening is called with the bound address before serving HTTP.
	OnListening func(net.Addr)
}

// NewServer builds the MCP server with every SoulSync tool and resource.
func NewServer(name, version string, svc *Service) *server.MCPServer {
	srv := server.NewMCPServer(
		fmt.Sprintf("%s MCP", name),
		version,
		server.WithResourceCapabilities(false, false),
		server.WithToolCapabilities(false),
		server.WithInstructions("Read and write the SoulSync mood journal, its analytics and the companion chat."),
		server.WithResourceRecovery(),
		server.WithRecovery(),
	)
	registerResources(srv, svc)
	registerTools(srv, svc)
	return srv
}

// EndpointPath normalizes p into an absolute route, defaulting to /mcp.
func EndpointPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return DefaultPath
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

func (r Runner) Do(ctx context.Context) error {
	if r.App == nil {
		return errors.New("mcp: runner requires an app service")
	}
	name := r.Name
	if name == "" {
		name = "soulsync"
	}
	version := r.Version
	if version == "" {
		version = "dev"
	}

	srv := NewServer(name, version, NewService(r.App, r.Remote))

	switch r.Transport {
	case "", TransportHTTP:
		return r.serveHTTP(ctx, srv)
	case TransportStdio:
		// stdout carries the protocol; keep logs off it.
		return server.ServeStdio(srv)
	default:
		return fmt.Errorf("mcp: unknown transport %q", r.Transport)
	}
}

// Router mounts the streamable HTTP handler for srv at path.
func Router(srv *server.MCPServer, path string) http.Handler {
	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.Recoverer)
	mux.Handle(EndpointPath(path), server.NewStreamableHTTPServer(srv))
	return mux
}

func (r Runner) serveHTTP(ctx context.Context, srv *server.MCPServer) error {
	useTLS := r.TLSCert != "" || r.TLSKey != ""
	if useTLS && (r.TLSCert == "" || r.TLSKey == "") {
		return ErrTLSPair
	}

	addr := r.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("mcp: listen %s: %w", addr, err)
	}
	if r.OnListening != nil {
		r.OnListening(ln.Addr())
	}

	httpSrv := &http.Server{
		Handler:           Router(srv, r.Path),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if useTLS {
			errCh <- httpSrv.ServeTLS(ln, r.TLSCert, r.TLSKey)
			return
		}
		errCh <- httpSrv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[mcp] shutdown: %v", err)
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("mcp: %w", err)
	}
}

// ListenURL renders the address clients should connect to.
func ListenURL(a net.Addr, path string, tls bool) string {
	scheme := "http"
	if tls {
		scheme = "https"
	}
	host := "127.0.0.1"
	port := ""
	if tcp, ok := a.(*net.TCPAddr); ok {
		if tcp.IP != nil && !tcp.IP.IsUnspecified() {
			host = tcp.IP.String()
		}
		port = fmt.Sprint(tcp.Port)
	} else if h, p, err := net.SplitHostPort(a.String()); err == nil {
		host, port = h, p
	}
	return fmt.Sprintf("%s://%s%s", scheme, net.JoinHostPort(host, port), EndpointPath(path))
}
