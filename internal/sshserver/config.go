// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Defaults for the SSH server configuration.
const (
	DefaultHost            = "localhost"
	DefaultPort            = ListenPort(23234)
	DefaultHostKeyPath     = ".ssh/m365admin_ed25519"
	DefaultShutdownTimeout = 10 * time.Second
)

var (
	// ErrInvalidHostAddress is the sentinel error wrapped by InvalidHostAddressError.
	ErrInvalidHostAddress = errors.New("invalid host address")
	// ErrInvalidListenPort is the sentinel error wrapped by InvalidListenPortError.
	ErrInvalidListenPort = errors.New("invalid listen port")
	// ErrInvalidServerConfig is the sentinel error wrapped by InvalidServerConfigError.
	ErrInvalidServerConfig = errors.New("invalid SSH server config")
)

type (
	// HostAddress is a network host (IP or hostname) for server binding.
	// A valid address must be non-empty and not whitespace-only.
	HostAddress string

	// ListenPort is a TCP listening port. Valid values are 1-65535.
	ListenPort int

	// Config holds the SSH server settings.
	Config struct {
		// Host is the bind address.
		Host HostAddress
		// Port is the listening port.
		Port ListenPort
		// HostKeyPath is where the server host key lives (created on first run).
		HostKeyPath string
		// ShutdownTimeout bounds graceful shutdown.
		ShutdownTimeout time.Duration
	}

	// InvalidHostAddressError is returned when a HostAddress is empty or
	// whitespace-only.
	InvalidHostAddressError struct {
		Value HostAddress
	}

	// InvalidListenPortError is returned when a ListenPort is out of range.
	InvalidListenPortError struct {
		Value ListenPort
	}

	// InvalidServerConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidServerConfig for errors.Is() compatibility and
	// collects field-level validation errors.
	InvalidServerConfigError struct {
		FieldErrors []error
	}
)

// String returns the string representation of the HostAddress.
func (h HostAddress) String() string { return string(h) }

// Validate returns nil if the HostAddress is non-empty and not
// whitespace-only, or an error wrapping ErrInvalidHostAddress.
func (h HostAddress) Validate() error {
	if strings.TrimSpace(string(h)) == "" {
		return &InvalidHostAddressError{Value: h}
	}
	return nil
}

// Validate returns nil if the ListenPort is within 1-65535, or an error
// wrapping ErrInvalidListenPort.
func (p ListenPort) Validate() error {
	if p < 1 || p > 65535 {
		return &InvalidListenPortError{Value: p}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidHostAddressError) Error() string {
	return fmt.Sprintf("invalid host address %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidHostAddress for errors.Is() compatibility.
func (e *InvalidHostAddressError) Unwrap() error { return ErrInvalidHostAddress }

// Error implements the error interface.
func (e *InvalidListenPortError) Error() string {
	return fmt.Sprintf("invalid listen port %d: must be within 1-65535", e.Value)
}

// Unwrap returns ErrInvalidListenPort for errors.Is() compatibility.
func (e *InvalidListenPortError) Unwrap() error { return ErrInvalidListenPort }

// Error implements the error interface.
func (e *InvalidServerConfigError) Error() string {
	return fmt.Sprintf("invalid SSH server config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidServerConfig for errors.Is() compatibility.
func (e *InvalidServerConfigError) Unwrap() error { return ErrInvalidServerConfig }

// DefaultConfig returns a Config populated with the package defaults.
func DefaultConfig() Config {
	return Config{
		Host:            DefaultHost,
		Port:            DefaultPort,
		HostKeyPath:     DefaultHostKeyPath,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// Validate checks every field and collects the individual errors into an
// InvalidServerConfigError.
func (c Config) Validate() error {
	var fieldErrors []error
	if err := c.Host.Validate(); err != nil {
		fieldErrors = append(fieldErrors, err)
	}
	if err := c.Port.Validate(); err != nil {
		fieldErrors = append(fieldErrors, err)
	}
	if strings.TrimSpace(c.HostKeyPath) == "" {
		fieldErrors = append(fieldErrors, errors.New("host key path must be non-empty"))
	}
	if len(fieldErrors) > 0 {
		return &InvalidServerConfigError{FieldErrors: fieldErrors}
	}
	return nil
}
