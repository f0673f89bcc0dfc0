// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"context"
	"errors"
	"fmt"
	"net"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	bm "github.com/charmbracelet/wish/bubbletea"
	wishlogging "github.com/charmbracelet/wish/logging"

	"github.com/BigZano/365Adm-TUI/internal/registry"
	"github.com/BigZano/365Adm-TUI/internal/runner"
	"github.com/BigZano/365Adm-TUI/internal/tui"
	"github.com/BigZano/365Adm-TUI/internal/workflow"
)

// Server hosts launcher sessions over SSH. Sessions are independent TUI
// models; the execution slot is shared so only one script runs at a time
// across all connected operators.
type Server struct {
	cfg      Config
	registry *registry.Registry
	runner   *runner.Runner
	slot     *workflow.Slot
	logger   *log.Logger

	srv *ssh.Server
}

// New validates the config and builds a Server. The registry should already
// hold a discovery snapshot; sessions list from it without re-scanning.
func New(cfg Config, reg *registry.Registry, run *runner.Runner, logger *log.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		cfg:      cfg,
		registry: reg,
		runner:   run,
		slot:     workflow.NewSlot(),
		logger:   logger,
	}

	srv, err := wish.NewServer(
		wish.WithAddress(net.JoinHostPort(cfg.Host.String(), fmt.Sprintf("%d", cfg.Port))),
		wish.WithHostKeyPath(cfg.HostKeyPath),
		wish.WithMiddleware(
			bm.Middleware(s.teaHandler),
			activeterm.Middleware(),
			wishlogging.Middleware(),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create SSH server: %w", err)
	}
	s.srv = srv
	return s, nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Host.String(), fmt.Sprintf("%d", s.cfg.Port))
}

// ListenAndServe serves sessions until the context is cancelled, then shuts
// down gracefully within the configured timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("SSH server listening", "address", s.Addr())
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return fmt.Errorf("shutdown: %w", err)
		}
		s.logger.Info("SSH server stopped")
		return nil
	}
}

// teaHandler builds a fresh session model per connection.
func (s *Server) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sess.Pty()
	s.logger.Info("session opened",
		"user", sess.User(),
		"remote", sess.RemoteAddr().String(),
		"term", pty.Term)

	model := tui.New(s.registry, s.runner, s.slot, s.logger)
	return model, []tea.ProgramOption{tea.WithAltScreen()}
}
