package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nguyentantai21042004/smelt-client/internal/config"
	"github.com/nguyentantai21042004/smelt-client/internal/connection"
	"github.com/nguyentantai21042004/smelt-client/internal/encoder"
	"github.com/nguyentantai21042004/smelt-client/internal/logger"
	"github.com/nguyentantai21042004/smelt-client/internal/media"
	"github.com/nguyentantai21042004/smelt-client/internal/metrics"
	"github.com/nguyentantai21042004/smelt-client/internal/output"
	"github.com/nguyentantai21042004/smelt-client/internal/session"
	"github.com/nguyentantai21042004/smelt-client/internal/strategy"
	"github.com/nguyentantai21042004/smelt-client/pkg/executor"
)

const defaultConfigPath = "config.yaml"

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

// ensureConfig loads the --config file, falling back to config.yaml and then to the
// development defaults.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		if path == "" {
			if _, err := os.Stat(defaultConfigPath); errors.Is(err, os.ErrNotExist) {
				c.config = config.Default()
				return
			}
			path = defaultConfigPath
		}

		cfg, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// app holds the long-lived dependencies shared by every job.
type app struct {
	cfg      *config.Config
	log      logger.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	encoder  encoder.Encoder
	media    media.Preparer
	writer   output.Writer
}

func newApp(cfg *config.Config) *app {
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	registry := prometheus.NewRegistry()

	return &app{
		cfg:      cfg,
		log:      log,
		registry: registry,
		metrics:  metrics.New(registry),
		encoder:  encoder.New(cfg.Performance.EncodeWorkers, log),
		media: media.New(media.Options{
			Binary:       cfg.FFmpeg.Binary,
			AudioBitrate: cfg.FFmpeg.AudioBitrate,
			SampleRate:   cfg.FFmpeg.SampleRate,
			TempDir:      cfg.Paths.Temp,
			ArchiveDir:   cfg.Paths.Archived,
		}, executor.New(), log),
		writer: output.New(output.Options{
			Dir:      cfg.Paths.Output,
			Markdown: cfg.Output.WriteMarkdown(),
			Docx:     cfg.Output.Docx,
		}, log),
	}
}

// newSession creates a controller with its own connection. Callers must Close it.
func (a *app) newSession(mode strategy.Mode, onChange func(session.Snapshot)) session.Controller {
	conn := connection.New(connection.Options{
		Endpoint:         a.cfg.Server.Endpoint(),
		HandshakeTimeout: a.cfg.Server.HandshakeTimeout,
		CloseGrace:       a.cfg.Server.CloseGrace,
		WriteTimeout:     a.cfg.Server.WriteTimeout,
	}, a.log, a.metrics)

	return session.New(session.Options{
		Mode:           mode,
		ConnectTimeout: a.cfg.Submission.ConnectTimeout,
		ItemTimeout:    a.cfg.Submission.ItemTimeout,
		OnChange:       onChange,
	}, a.encoder, conn, a.log, a.metrics)
}

func (a *app) mode(flag string) (strategy.Mode, error) {
	if flag == "" {
		flag = a.cfg.Submission.Mode
	}
	mode, err := strategy.ParseMode(flag)
	if err != nil {
		return "", fmt.Errorf("mode: %w", err)
	}
	return mode, nil
}
