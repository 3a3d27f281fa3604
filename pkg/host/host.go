package host

import (
	"log/slog"

	"github.com/vango-dev/reactive/pkg/reactive"
)

// Host owns the injector and the change detector shared by the components
// it mounts.
type Host struct {
	registry *Registry
	detector *Detector
	logger   *slog.Logger
}

// Option configures a Host.
type Option func(*hostConfig)

type hostConfig struct {
	parent    *Registry
	logger    *slog.Logger
	observer  reactive.Observer
	providers []provider
}

type provider struct {
	key, value any
}

// WithLogger sets the logger provided to components under
// reactive.LoggerKey. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *hostConfig) {
		c.logger = logger
	}
}

// WithObserver provides o under reactive.ObserverKey.
func WithObserver(o reactive.Observer) Option {
	return func(c *hostConfig) {
		c.observer = o
	}
}

// WithParent makes the host registry fall back to parent.
func WithParent(parent *Registry) Option {
	return func(c *hostConfig) {
		c.parent = parent
	}
}

// WithProvider registers an additional capability.
func WithProvider(key, value any) Option {
	return func(c *hostConfig) {
		c.providers = append(c.providers, provider{key, value})
	}
}

// New creates a host with its own registry and detector.
func New(opts ...Option) *Host {
	var cfg hostConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	h := &Host{
		registry: NewRegistry(cfg.parent),
		detector: NewDetector(),
		logger:   cfg.logger,
	}
	h.registry.Provide(reactive.ChangeDetectorKey, h.detector)
	h.registry.Provide(reactive.LoggerKey, cfg.logger)
	if cfg.observer != nil {
		h.registry.Provide(reactive.ObserverKey, cfg.observer)
	}
	for _, p := range cfg.providers {
		h.registry.Provide(p.key, p.value)
	}
	return h
}

// Injector returns the injector components should be constructed with.
func (h *Host) Injector() reactive.Injector {
	return h.registry
}

// Registry returns the host registry.
func (h *Host) Registry() *Registry {
	return h.registry
}

// Detector returns the host change detector.
func (h *Host) Detector() *Detector {
	return h.detector
}

// Logger returns the host logger.
func (h *Host) Logger() *slog.Logger {
	return h.logger
}

// Mount creates a fixture driving component. No hook runs until the first
// DetectChanges.
func (h *Host) Mount(component any) *Fixture {
	return &Fixture{
		host:      h,
		component: component,
		inputs:    make(map[string]any),
	}
}
