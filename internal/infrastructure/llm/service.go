package llm

import (
	"context"
	"log/slog"
	"os/exec"
	"time"
)

// Service keeps a local Ollama server available for the duration of a run:
// if one is already listening it is left alone, otherwise `ollama serve` is
// started as a child process and stopped again on shutdown. Owned by the app
// layer; the pipeline only sees the chat contract.
type Service struct {
	client *Client
	logger *slog.Logger
	cmd    *exec.Cmd
}

// NewService wires the client used for readiness probes.
func NewService(client *Client, logger *slog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// Start ensures a server is reachable, launching one when needed. A server
// that never becomes ready is logged, not fatal: later chat calls will fail
// per item and degrade to defaults.
func (s *Service) Start(ctx context.Context) {
	if s.client.Ping(ctx) == nil {
		s.logger.Info("ollama server already running")
		return
	}

	s.logger.Info("ollama server not detected, starting one")
	cmd := exec.Command("ollama", "serve")
	if err := cmd.Start(); err != nil {
		s.logger.Error("cannot start ollama serve", "error", err)
		return
	}
	s.cmd = cmd

	for i := 0; i < 30; i++ {
		if s.client.Ping(ctx) == nil {
			s.logger.Info("ollama server ready")
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(500 * time.Millisecond):
		}
	}

	s.logger.Warn("could not confirm ollama server readiness")
}

// Stop terminates the server only if this process started it.
func (s *Service) Stop() {
	if s.cmd == nil || s.cmd.Process == nil {
		s.logger.Info("leaving ollama server alone, not started by this run")
		return
	}

	s.logger.Info("stopping ollama server started by this run")
	if err := s.cmd.Process.Kill(); err != nil {
		s.logger.Warn("kill ollama serve", "error", err)
		return
	}
	_ = s.cmd.Wait()
}
