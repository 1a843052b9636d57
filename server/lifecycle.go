package server

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/teranos/chartparse/errors"
	"github.com/teranos/chartparse/logger"
)

func (s *Server) getState() ServerState {
	return ServerState(s.state.Load())
}

func (s *Server) setState(newState ServerState) {
	s.state.Store(int32(newState))
	s.logger.Infow("Server state changed", logger.FieldState, stateString(newState))
}

func stateString(state ServerState) string {
	switch state {
	case ServerStateStarting:
		return "starting"
	case ServerStateRunning:
		return "running"
	case ServerStateDraining:
		return "draining"
	case ServerStateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Start listens on port, or the next free port above it, and serves until
// ctx is cancelled. In-flight requests get ShutdownTimeout to finish.
func (s *Server) Start(ctx context.Context, port int) error {
	ln, err := listenAvailable(port)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: ShutdownTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.setState(ServerStateRunning)
	s.logger.Infow("HTTP server listening", logger.FieldAddress, ln.Addr().String())

	select {
	case err := <-errCh:
		s.setState(ServerStateStopped)
		return errors.Wrap(err, "http server failed")
	case <-ctx.Done():
	}

	s.setState(ServerStateDraining)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warnw("Shutdown timed out, closing connections",
			logger.FieldError, err)
		srv.Close()
	}
	s.setState(ServerStateStopped)
	return nil
}

// listenAvailable tries the requested port, then the ten above it.
func listenAvailable(requestedPort int) (net.Listener, error) {
	var lastErr error
	for port := requestedPort; port <= requestedPort+10; port++ {
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err == nil {
			if port != requestedPort {
				logger.Infow("Port in use, using alternative",
					"requested_port", requestedPort,
					logger.FieldPort, port)
			}
			return ln, nil
		}
		lastErr = err
		if requestedPort == 0 {
			break
		}
	}
	return nil, errors.WithHint(
		errors.Wrapf(lastErr, "no available port in %d-%d", requestedPort, requestedPort+10),
		"Set server.port in am.toml or CHARTPARSE_SERVER_PORT")
}
