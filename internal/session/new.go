package session

import (
	"context"
	"sync"
	"time"

	"github.com/nguyentantai21042004/smelt-client/internal/collector"
	"github.com/nguyentantai21042004/smelt-client/internal/connection"
	"github.com/nguyentantai21042004/smelt-client/internal/encoder"
	"github.com/nguyentantai21042004/smelt-client/internal/ledger"
	"github.com/nguyentantai21042004/smelt-client/internal/logger"
	"github.com/nguyentantai21042004/smelt-client/internal/metrics"
	"github.com/nguyentantai21042004/smelt-client/internal/strategy"
)

// Options configures a Controller. Zero timeouts disable the timeout.
type Options struct {
	Mode           strategy.Mode
	ConnectTimeout time.Duration
	ItemTimeout    time.Duration
	// OnChange receives a snapshot after every state change. It runs on the session
	// goroutine and must not call back into the Controller.
	OnChange func(Snapshot)
}

type implController struct {
	opts    Options
	encoder encoder.Encoder
	conn    connection.Manager
	logger  logger.Logger
	metrics *metrics.Metrics

	cmds      chan func()
	quit      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once

	// owned by the run goroutine
	state   *sessionState
	lastGen uint64
}

// New creates a Controller and starts its event loop
func New(opts Options, enc encoder.Encoder, conn connection.Manager, log logger.Logger, m *metrics.Metrics) Controller {
	if opts.Mode == "" {
		opts.Mode = strategy.ModeBulk
	}
	if log == nil {
		log = logger.NewNop()
	}

	c := &implController{
		opts:    opts,
		encoder: enc,
		conn:    conn,
		logger:  log,
		metrics: m,
		cmds:    make(chan func()),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	c.state = c.idleState()

	go c.run()
	return c
}

func (c *implController) idleState() *sessionState {
	c.lastGen++
	return &sessionState{
		generation: c.lastGen,
		ctx:        context.Background(),
		phase:      PhaseIdle,
		mode:       c.opts.Mode,
		ledger:     ledger.New(),
		collector:  collector.New(),
	}
}
