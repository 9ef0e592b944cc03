package main

import (
	"context"
	"os"

	"github.com/sandevgo/kpigpt/internal/config"
	"github.com/sandevgo/kpigpt/pkg/log"
	"github.com/spf13/cobra"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "kpigpt",
	Short: "KPI GPT, the Khulna Polytechnic Institute assistant",
	Long:  `KPI GPT answers questions about Khulna Polytechnic Institute teachers, departments and contacts over HTTP and Telegram.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all subcommands
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	isDebug := debug || config.IsDebug()
	return log.NewContextWithLogger(ctx, isDebug)
}
