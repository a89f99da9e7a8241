package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ServiceManager manages the lifecycle of the HTTP listeners of a serve run
type ServiceManager struct {
	services []*service
}

type service struct {
	name string
	srv  *http.Server
}

// NewServiceManager creates a new service manager
func NewServiceManager() *ServiceManager {
	return &ServiceManager{}
}

// AddHTTPService registers a server to start on Run
func (sm *ServiceManager) AddHTTPService(name, addr string, handler http.Handler) {
	sm.services = append(sm.services, &service{
		name: name,
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	})
}

// Run starts every service and blocks until ctx is cancelled or one of them
// fails. All services are then shut down within shutdownTimeout.
func (sm *ServiceManager) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	if len(sm.services) == 0 {
		return errors.New("no services registered")
	}

	errCh := make(chan error, len(sm.services))
	for _, svc := range sm.services {
		ln, err := net.Listen("tcp", svc.srv.Addr)
		if err != nil {
			sm.shutdownServices(shutdownTimeout)
			return fmt.Errorf("failed to listen for %s on %s: %w", svc.name, svc.srv.Addr, err)
		}

		log.Info().
			Str("service", svc.name).
			Str("addr", ln.Addr().String()).
			Msg("Service listening")

		go func(svc *service, ln net.Listener) {
			if err := svc.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("%s service: %w", svc.name, err)
			}
		}(svc, ln)
	}

	var runErr error
	select {
	case runErr = <-errCh:
		log.Error().Err(runErr).Msg("Service exited with error")
	case <-ctx.Done():
		log.Info().Msg("Shutting down services...")
	}

	sm.shutdownServices(shutdownTimeout)
	return runErr
}

// shutdownServices gracefully shuts down all services in parallel
func (sm *ServiceManager) shutdownServices(timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var wg sync.WaitGroup
	for _, svc := range sm.services {
		wg.Add(1)
		go func(svc *service) {
			defer wg.Done()
			if err := svc.srv.Shutdown(ctx); err != nil {
				log.Error().Err(err).Str("service", svc.name).Msg("Graceful shutdown failed, closing")
				_ = svc.srv.Close()
			}
		}(svc)
	}
	wg.Wait()
}
