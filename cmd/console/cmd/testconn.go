package cmd

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tracker-console/internal/tracker"
)

func newTestConnectionCmd() *cobra.Command {
	var (
		flags   workerFlags
		verbose bool

		token   string
		proxy   string
		timeout time.Duration
	)

	testCmd := &cobra.Command{
		Use:           "test-connection",
		Short:         "Probe connectivity with the given token",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			prober := tracker.NewProber(tracker.ProberConfig{
				Launcher: flags.launcher(),
				Logger:   newConsoleLogger(verbose),
			})

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			proxyEnabled := false
			proxyHost := ""
			proxyPort := 0
			if p := strings.TrimSpace(proxy); p != "" {
				host, port, err := splitProxy(p)
				if err != nil {
					return err
				}
				proxyEnabled = true
				proxyHost = host
				proxyPort = port
			}

			msg, err := prober.TestConnection(ctx, token, proxyEnabled, proxyHost, proxyPort)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	flags.register(testCmd)
	testCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log probe details")
	testCmd.Flags().StringVar(&token, "token", "", "Bot token")
	testCmd.Flags().StringVar(&proxy, "proxy", "", "Upstream proxy as host:port (optional)")
	testCmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "Probe timeout")

	if err := testCmd.MarkFlagRequired("token"); err != nil {
		panic(fmt.Errorf("failed to mark required flag token: %w", err))
	}

	return testCmd
}

func splitProxy(raw string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(raw)
	if err != nil {
		return "", 0, fmt.Errorf("invalid proxy %q: want host:port", raw)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return "", 0, fmt.Errorf("invalid proxy port %q", portStr)
	}
	return host, port, nil
}
