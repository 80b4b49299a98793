package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// DevEndpoint is the fixed endpoint used when server.development is set.
const DevEndpoint = "ws://localhost:8000/ws/process"

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Submission  SubmissionConfig  `yaml:"submission"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
	Output      OutputConfig      `yaml:"output"`
	Watch       WatchConfig       `yaml:"watch"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

type ServerConfig struct {
	URL              string        `yaml:"url"`
	Host             string        `yaml:"host"`
	Secure           bool          `yaml:"secure"`
	Path             string        `yaml:"path"`
	Development      bool          `yaml:"development"`
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	CloseGrace       time.Duration `yaml:"close_grace"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
}

// SubmissionConfig selects the submission policy. Zero timeouts disable the timeout.
type SubmissionConfig struct {
	Mode           string        `yaml:"mode"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	ItemTimeout    time.Duration `yaml:"item_timeout"`
}

type PathsConfig struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Archived string `yaml:"archived"`
	Temp     string `yaml:"temp"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
	EncodeWorkers int `yaml:"encode_workers"`
}

type OutputConfig struct {
	Markdown *bool `yaml:"markdown"`
	Docx     bool  `yaml:"docx"`
}

type WatchConfig struct {
	BatchWindow  time.Duration `yaml:"batch_window"`
	SettleDelay  time.Duration `yaml:"settle_delay"`
	MaxBatchSize int           `yaml:"max_batch_size"`
}

type FFmpegConfig struct {
	Binary       string `yaml:"binary"`
	AudioBitrate string `yaml:"audio_bitrate"`
	SampleRate   int    `yaml:"sample_rate"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Endpoint resolves the duplex endpoint the client connects to.
func (s ServerConfig) Endpoint() string {
	if s.URL != "" {
		return s.URL
	}
	if s.Development {
		return DevEndpoint
	}

	scheme := "ws"
	if s.Secure {
		scheme = "wss"
	}
	path := s.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return scheme + "://" + s.Host + path
}

// WriteMarkdown reports whether results are written as markdown files. Defaults to true.
func (o OutputConfig) WriteMarkdown() bool {
	return o.Markdown == nil || *o.Markdown
}

func (c *Config) Validate() error {
	if c.Server.URL == "" && c.Server.Host == "" && !c.Server.Development {
		return fmt.Errorf("server.url, server.host or server.development is required")
	}
	if c.Server.URL != "" {
		u, err := url.Parse(c.Server.URL)
		if err != nil {
			return fmt.Errorf("server.url: %w", err)
		}
		if u.Scheme != "ws" && u.Scheme != "wss" {
			return fmt.Errorf("server.url: scheme must be ws or wss, got %q", u.Scheme)
		}
	}

	switch strings.ToLower(c.Submission.Mode) {
	case "":
		c.Submission.Mode = "bulk"
	case "bulk", "sequential":
		c.Submission.Mode = strings.ToLower(c.Submission.Mode)
	default:
		return fmt.Errorf("submission.mode: unsupported value %q", c.Submission.Mode)
	}
	if c.Submission.ConnectTimeout < 0 || c.Submission.ItemTimeout < 0 {
		return fmt.Errorf("submission timeouts must not be negative")
	}

	if c.Server.Path == "" {
		c.Server.Path = "/ws/process"
	}
	if c.Server.HandshakeTimeout == 0 {
		c.Server.HandshakeTimeout = 45 * time.Second
	}
	if c.Server.CloseGrace == 0 {
		c.Server.CloseGrace = 2 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Paths.Input == "" {
		c.Paths.Input = "data/input"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "data/output"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}
	if c.Performance.EncodeWorkers == 0 {
		c.Performance.EncodeWorkers = 4
	}
	if c.Watch.BatchWindow == 0 {
		c.Watch.BatchWindow = 2 * time.Second
	}
	if c.Watch.SettleDelay == 0 {
		c.Watch.SettleDelay = 500 * time.Millisecond
	}
	if c.Watch.MaxBatchSize == 0 {
		c.Watch.MaxBatchSize = 10
	}
	if c.FFmpeg.Binary == "" {
		c.FFmpeg.Binary = "ffmpeg"
	}
	if c.FFmpeg.AudioBitrate == "" {
		c.FFmpeg.AudioBitrate = "64k"
	}
	if c.FFmpeg.SampleRate == 0 {
		c.FFmpeg.SampleRate = 16000
	}

	return nil
}
