package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thomasma/langgraph-researcher/config"
	"github.com/thomasma/langgraph-researcher/engine"
)

func serveCMD() *cobra.Command {
	var cfgPath string

	var serve = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("configuration: %w", err)
			}
			return engine.Start(cfg)
		},
	}
	serve.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./config)")

	return serve
}
