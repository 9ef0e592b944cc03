package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sandevgo/kpigpt/internal/config"
	"github.com/sandevgo/kpigpt/pkg/env"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter .env into the runtime directory",
	Long:  `Creates the runtime directory and a .env file pre-filled with defaults. Required keys (GROQ_API_KEY, VECTOR_STORE_URL) are listed empty for you to fill in.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		runtimePath := config.GetRuntimePath()
		envFile := filepath.Join(runtimePath, ".env")

		if _, err := os.Stat(envFile); err == nil {
			return fmt.Errorf("%s already exists, not overwriting", envFile)
		}

		if err := os.MkdirAll(runtimePath, 0755); err != nil {
			return fmt.Errorf("failed to create runtime directory: %w", err)
		}

		content := "# KPI GPT configuration\n\n# Required\nGROQ_API_KEY=\nVECTOR_STORE_URL=\n\n# Optional, enable with ENABLE_TELEGRAM=true\nTELEGRAM_TOKEN=\n\n# Defaults\n"
		for _, cfg := range []any{
			&config.AppConfig{EnableHTTP: true, HistoryWindow: 10},
			&config.GroqConfig{Model: "llama3-8b-8192", BaseURL: "https://api.groq.com/openai", Temperature: 0.7, MaxTokens: 1024, Timeout: 30 * time.Second},
			&config.RetrievalConfig{SimilarityThreshold: 0.4, MaxResults: 5, MaxExpansions: 4, Timeout: 10 * time.Second},
			&config.HTTPConfig{Addr: ":8080"},
		} {
			section, err := env.MarshalEnv(cfg)
			if err != nil {
				return fmt.Errorf("failed to render config: %w", err)
			}
			content += section
		}

		if err := os.WriteFile(envFile, []byte(content), 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", envFile, err)
		}

		fmt.Println("wrote", envFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
