package connection

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nguyentantai21042004/smelt-client/internal/logger"
	"github.com/nguyentantai21042004/smelt-client/internal/metrics"
)

// Options configures the transport. Endpoint is required.
type Options struct {
	Endpoint         string
	HandshakeTimeout time.Duration
	// CloseGrace bounds how long a closing connection waits for the remote close frame.
	CloseGrace   time.Duration
	WriteTimeout time.Duration
	Header       http.Header
	EventBuffer  int
}

// New creates a Manager for opts.Endpoint
func New(opts Options, log logger.Logger, m *metrics.Metrics) Manager {
	if opts.HandshakeTimeout <= 0 {
		opts.HandshakeTimeout = 45 * time.Second
	}
	if opts.CloseGrace <= 0 {
		opts.CloseGrace = 2 * time.Second
	}
	if opts.EventBuffer <= 0 {
		opts.EventBuffer = 64
	}

	return &implManager{
		opts:    opts,
		logger:  log,
		metrics: m,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: opts.HandshakeTimeout,
		},
		events: make(chan Event, opts.EventBuffer),
		quit:   make(chan struct{}),
	}
}
