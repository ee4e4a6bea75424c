package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	clientcmd "github.com/ivorypay-org/ivorypay-hedera-node/internal/cmd/client"
	serverrun "github.com/ivorypay-org/ivorypay-hedera-node/internal/cmd/server"
	cfgpkg "github.com/ivorypay-org/ivorypay-hedera-node/internal/config"
	logpkg "github.com/ivorypay-org/ivorypay-hedera-node/pkg/log"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mirrord",
		Short: "Consensus mirror node CLI",
		Long:  "mirrord is a single-binary consensus mirror node. This CLI manages the server and basic client operations.",
	}

	serverCmd := &cobra.Command{Use: "server", Short: "Server commands"}
	serverStartCmd := &cobra.Command{
		Use:     "start",
		Short:   "Start the mirror node (gRPC, metrics, ingest)",
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := cfgpkg.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("grpc") {
				cfg.GRPC.ListenAddr, _ = cmd.Flags().GetString("grpc")
			}
			if cmd.Flags().Changed("data-dir") {
				cfg.Storage.DataDir, _ = cmd.Flags().GetString("data-dir")
			}
			if cmd.Flags().Changed("fsync") {
				cfg.Storage.Fsync, _ = cmd.Flags().GetString("fsync")
			}
			if cmd.Flags().Changed("fsync-interval-ms") {
				ms, _ := cmd.Flags().GetInt("fsync-interval-ms")
				cfg.Storage.FsyncInterval = time.Duration(ms) * time.Millisecond
			}
			if cmd.Flags().Changed("metrics-addr") {
				cfg.Metrics.ListenAddr, _ = cmd.Flags().GetString("metrics-addr")
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level, _ = cmd.Flags().GetString("log-level")
			}
			if cmd.Flags().Changed("log-pretty") {
				cfg.Log.Pretty, _ = cmd.Flags().GetBool("log-pretty")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := logpkg.New(os.Stderr, logpkg.Options{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
			if err != nil {
				return err
			}
			if err := serverrun.Run(cmd.Context(), serverrun.Options{Config: cfg, Logger: logger}); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}
	serverStartCmd.Flags().String("config", "", "Path to config file (optional; env and defaults apply)")
	serverStartCmd.Flags().String("grpc", "", "gRPC listen address")
	serverStartCmd.Flags().String("data-dir", "", "Data directory")
	serverStartCmd.Flags().String("fsync", "", "Fsync mode: always|interval|never")
	serverStartCmd.Flags().Int("fsync-interval-ms", 5, "When fsync=interval, group-commit window in ms")
	serverStartCmd.Flags().String("metrics-addr", "", "Metrics listen address")
	serverStartCmd.Flags().String("log-level", "", "Log level: trace|debug|info|warn|error")
	serverStartCmd.Flags().Bool("log-pretty", false, "Human-readable console logs instead of JSON")
	serverCmd.AddCommand(serverStartCmd)
	rootCmd.AddCommand(serverCmd)

	rootCmd.AddCommand(clientcmd.NewTopicCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
