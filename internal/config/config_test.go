package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "host only",
			config:  Config{Server: ServerConfig{Host: "smelt.example.com"}},
			wantErr: false,
		},
		{
			name:    "development",
			config:  Config{Server: ServerConfig{Development: true}},
			wantErr: false,
		},
		{
			name:    "missing server",
			config:  Config{},
			wantErr: true,
		},
		{
			name:    "http url",
			config:  Config{Server: ServerConfig{URL: "http://localhost:8000/ws/process"}},
			wantErr: true,
		},
		{
			name: "unknown mode",
			config: Config{
				Server:     ServerConfig{Host: "localhost:8000"},
				Submission: SubmissionConfig{Mode: "parallel"},
			},
			wantErr: true,
		},
		{
			name: "negative timeout",
			config: Config{
				Server:     ServerConfig{Host: "localhost:8000"},
				Submission: SubmissionConfig{ItemTimeout: -time.Second},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Config{Server: ServerConfig{Host: "localhost:8000"}}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "bulk", cfg.Submission.Mode)
	assert.Equal(t, "/ws/process", cfg.Server.Path)
	assert.Equal(t, 45*time.Second, cfg.Server.HandshakeTimeout)
	assert.Equal(t, time.Duration(0), cfg.Submission.ConnectTimeout)
	assert.Equal(t, time.Duration(0), cfg.Submission.ItemTimeout)
	assert.Equal(t, 2, cfg.Performance.MaxConcurrent)
	assert.Equal(t, "data/archived", cfg.Paths.Archived)
	assert.True(t, cfg.Output.WriteMarkdown())
}

func TestEndpoint(t *testing.T) {
	tests := []struct {
		name   string
		server ServerConfig
		want   string
	}{
		{"explicit url wins", ServerConfig{URL: "wss://a.example/x", Development: true}, "wss://a.example/x"},
		{"development", ServerConfig{Development: true, Host: "ignored"}, DevEndpoint},
		{"plain", ServerConfig{Host: "smelt.local:8080", Path: "/ws/process"}, "ws://smelt.local:8080/ws/process"},
		{"secure", ServerConfig{Host: "smelt.example.com", Secure: true, Path: "ws/process"}, "wss://smelt.example.com/ws/process"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.server.Endpoint())
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	content := `
server:
  host: "smelt.example.com"
  secure: true
  handshake_timeout: 10s

submission:
  mode: sequential
  item_timeout: 5m

paths:
  input: "data/input"
  output: "data/output"

output:
  markdown: false
  docx: true

logging:
  level: "debug"
  format: "json"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "wss://smelt.example.com/ws/process", cfg.Server.Endpoint())
	assert.Equal(t, 10*time.Second, cfg.Server.HandshakeTimeout)
	assert.Equal(t, "sequential", cfg.Submission.Mode)
	assert.Equal(t, 5*time.Minute, cfg.Submission.ItemTimeout)
	assert.Equal(t, "data/input", cfg.Paths.Input)
	assert.False(t, cfg.Output.WriteMarkdown())
	assert.True(t, cfg.Output.Docx)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DevEndpoint, cfg.Server.Endpoint())
	assert.Equal(t, "bulk", cfg.Submission.Mode)
}
