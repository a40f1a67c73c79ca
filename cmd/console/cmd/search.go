package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"tracker-console/internal/tracker"
)

func newSearchCmd() *cobra.Command {
	var (
		flags   workerFlags
		verbose bool

		token         string
		listenerToken string
		serverID      string
		roleIDs       []string
		targetChannel string
		testMessage   string
		timeout       int
		webhookURL    string
		sendChannel   string
		proxy         string
	)

	searchCmd := &cobra.Command{
		Use:           "search",
		Short:         "Run one search and print the result as JSON",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := tracker.RunConfig{
				Token:           token,
				ListenerToken:   listenerToken,
				ServerID:        serverID,
				RoleIDs:         roleIDs,
				TargetChannelID: targetChannel,
				TestMessage:     testMessage,
				Timeout:         timeout,
				WebhookURL:      webhookURL,
				SendChannelID:   sendChannel,
			}
			if p := strings.TrimSpace(proxy); p != "" {
				host, port, err := splitProxy(p)
				if err != nil {
					return err
				}
				cfg.ProxyEnabled = true
				cfg.ProxyHost = host
				cfg.ProxyPort = port
			}

			bus := tracker.NewProgressBus()
			sup := tracker.NewSupervisor(tracker.SupervisorConfig{
				Launcher: flags.launcher(),
				Bus:      bus,
				Logger:   newConsoleLogger(verbose),
			})

			updates, cancel := bus.Subscribe(64)
			defer cancel()
			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				for u := range updates {
					fmt.Fprintf(cmd.ErrOrStderr(), "[%d/%d] remaining=%d %s\n",
						u.Event.Step, u.Event.Total, u.Event.Remaining, u.Event.Message)
				}
			}()

			result, err := sup.Start(cfg)
			cancel()
			wg.Wait()
			if err != nil {
				return err
			}

			if result == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "null")
				return nil
			}
			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	flags.register(searchCmd)
	searchCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log worker lifecycle events")
	searchCmd.Flags().StringVar(&token, "token", "", "Bot token")
	searchCmd.Flags().StringVar(&listenerToken, "listener-token", "", "Secondary listener token (optional)")
	searchCmd.Flags().StringVar(&serverID, "server-id", "", "Server (guild) identifier")
	searchCmd.Flags().StringSliceVar(&roleIDs, "role-ids", nil, "Role identifiers to search within")
	searchCmd.Flags().StringVar(&targetChannel, "target-channel-id", "", "Channel watched for the leaked message")
	searchCmd.Flags().StringVar(&testMessage, "test-message", "", "Canary message text")
	searchCmd.Flags().IntVar(&timeout, "timeout", 10, "Per-step wait in seconds")
	searchCmd.Flags().StringVar(&webhookURL, "webhook-url", "", "Webhook URL (optional)")
	searchCmd.Flags().StringVar(&sendChannel, "send-channel-id", "", "Alternate send channel (optional)")
	searchCmd.Flags().StringVar(&proxy, "proxy", "", "Upstream proxy as host:port (optional)")

	for _, name := range []string{"token", "server-id", "role-ids", "target-channel-id", "test-message"} {
		if err := searchCmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Errorf("failed to mark required flag %s: %w", name, err))
		}
	}

	return searchCmd
}
