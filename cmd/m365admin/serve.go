// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/BigZano/365Adm-TUI/internal/issue"
	"github.com/BigZano/365Adm-TUI/internal/sshserver"
)

var (
	serveHost    string
	servePort    int
	serveHostKey string

	// serveCmd hosts the interactive picker over SSH for remote operators.
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive picker over SSH",
		Long: `Serve the interactive picker to remote operators over SSH.

Every connection gets its own session, but script executions are mutually
exclusive across all sessions: while one operator's script runs, everyone
else's execute requests are refused until it finishes.`,
		RunE: serveSSH,
	}
)

func init() {
	defaults := sshserver.DefaultConfig()
	serveCmd.Flags().StringVar(&serveHost, "host", defaults.Host.String(), "bind address")
	serveCmd.Flags().IntVar(&servePort, "port", int(defaults.Port), "listening port")
	serveCmd.Flags().StringVar(&serveHostKey, "host-key", defaults.HostKeyPath, "host key path (generated on first start)")
}

func serveSSH(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()
	a.warnIfEmpty()

	serverCfg := sshserver.DefaultConfig()
	serverCfg.Host = sshserver.HostAddress(serveHost)
	serverCfg.Port = sshserver.ListenPort(servePort)
	serverCfg.HostKeyPath = serveHostKey

	server, err := sshserver.New(serverCfg, a.registry, a.runner, a.logger)
	if err != nil {
		return serveError(err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(TitleStyle.Render("m365admin") +
		SubtitleStyle.Render(" serving on "+server.Addr()+" (ctrl+c to stop)"))
	if err := server.ListenAndServe(ctx); err != nil {
		return serveError(err)
	}
	return nil
}

// serveError attaches the SSH help card to a server failure.
func serveError(err error) error {
	if card, renderErr := issue.Get(issue.SSHServeFailedId).Render("auto"); renderErr == nil {
		fmt.Fprintln(os.Stderr, card)
	}
	return err
}
