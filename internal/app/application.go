// Package app wires the hub together. Component construction follows
// dependency order: state, then transport registry, then router, then the
// HTTP surfaces.
package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chathub/internal/api"
	"chathub/internal/config"
	"chathub/internal/router"
	"chathub/internal/state"
	"chathub/internal/ws"
)

// Application coordinates all system components.
type Application struct {
	config     *config.Config
	hubState   *state.State
	registry   *ws.Registry
	router     *router.Router
	apiServer  *api.Server
	httpServer *http.Server
}

// NewApplication builds an application from configuration.
func NewApplication(cfg *config.Config) (*Application, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	hubState := state.New(cfg.History.Capacity)
	registry := ws.NewRegistry()
	gateway := ws.NewGateway(registry, hubState.Sessions)
	eventRouter := router.New(hubState, gateway, cfg.History.PageSize, cfg.History.MaxPageSize)
	wsHandler := ws.NewHandler(registry, eventRouter, cfg.WebSocket)
	apiServer := api.NewServer(hubState, registry)

	mux := http.NewServeMux()
	mux.Handle("/api/", apiServer)
	mux.Handle("/health", apiServer)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/ws", wsHandler.HandleWebSocket)
	mux.Handle("/", apiServer)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      mux,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	return &Application{
		config:     cfg,
		hubState:   hubState,
		registry:   registry,
		router:     eventRouter,
		apiServer:  apiServer,
		httpServer: httpServer,
	}, nil
}

// Start begins serving. It returns once the listener is up or startup fails.
func (app *Application) Start(ctx context.Context) error {
	log.Printf("Starting chathub on %s", app.httpServer.Addr)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := app.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case err := <-serverErrCh:
		return err
	case <-time.After(100 * time.Millisecond):
		log.Printf("chathub started successfully")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop gracefully shuts down the HTTP server and closes every live
// connection.
func (app *Application) Stop(ctx context.Context) error {
	log.Printf("Shutting down chathub")

	if err := app.httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	for _, conn := range app.registry.All() {
		_ = conn.Close()
	}

	log.Printf("chathub shutdown complete")
	return nil
}

// GetAddr returns the server address for external connections.
func (app *Application) GetAddr() string {
	return app.httpServer.Addr
}
