package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"bumperbot/client"
)

const version = "0.1.0"

// 退出码：握手失败与运行期失败区分开
const (
	exitFailure   = 1
	exitHandshake = 2
)

var configPath string

// bumperbot 入口：连接 SpaceBumper 服务端，后台摄取世界状态，前台按固定周期决策
func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "bumperbot",
		Short: "SpaceBumper AI client",
		Long: `bumperbot connects to a SpaceBumper server, keeps a local copy of the
world streamed by the server and runs a decision strategy against it.

Examples:
  bumperbot --target 127.0.0.1:3333 --name Bot --color red
  bumperbot run --strategy describe --log-level debug
  bumperbot --target ws://bridge.local/bumper --admin :9090`,
		SilenceUsage: true,
		RunE:         runClient,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ./bumperbot.yaml)")
	root.PersistentFlags().String("target", "", "Server address host:port or ws:// URL")
	root.PersistentFlags().String("name", "", "Player name sent in the handshake")
	root.PersistentFlags().String("color", "", "Player color sent in the handshake")
	root.PersistentFlags().String("strategy", "", "Decision strategy (see 'bumperbot strategies')")
	root.PersistentFlags().String("admin", "", "Admin HTTP listen address, e.g. :9090")
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Connect and play (default)",
		RunE:  runClient,
	})
	root.AddCommand(&cobra.Command{
		Use:   "strategies",
		Short: "List available decision strategies",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range client.GetStrategyRegistry().Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "bumperbot %s\n", version)
		},
	})
	return root
}

func runClient(cmd *cobra.Command, args []string) error {
	cfg, err := client.LoadConfig(configPath, cmd.Flags())
	if err != nil {
		return err
	}
	if err := client.InitLogger(cfg.Logging); err != nil {
		return err
	}
	defer client.SyncLogger()

	// 优雅退出（Ctrl+C）
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = client.Run(ctx, cfg)
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		client.Log.Info("Shutting down...")
		return nil
	}
	if err != nil {
		client.Log.Errorw("client stopped", "err", err)
	}
	return err
}

func exitCode(err error) int {
	if errors.Is(err, client.ErrHandshake) || errors.Is(err, client.ErrInvalidName) {
		return exitHandshake
	}
	return exitFailure
}
