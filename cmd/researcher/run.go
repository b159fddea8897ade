package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thomasma/langgraph-researcher/agents"
	"github.com/thomasma/langgraph-researcher/config"
	"github.com/thomasma/langgraph-researcher/engine"
)

func runCMD() *cobra.Command {
	var cfgPath string
	var sessionID string
	var outFile string

	var run = &cobra.Command{
		Use:   "run [topic...]",
		Short: "Run the research pipeline for a topic and print the report",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("configuration: %w", err)
			}

			topic := strings.Join(args, " ")
			logger := log.New(os.Stderr, "[RESEARCHER] ", log.LstdFlags)

			pipeline, err := engine.BuildPipeline(cfg, logger, nil)
			if err != nil {
				return err
			}

			state, err := pipeline.RunSession(cmd.Context(), topic, sessionID)
			if err != nil {
				return fmt.Errorf("research failed: %w", err)
			}

			fmt.Println(state.FinalReport)

			if outFile == "" {
				outFile = "research_report_" + strings.ToLower(strings.ReplaceAll(topic, " ", "_")) + ".md"
			}
			if err := os.WriteFile(outFile, []byte(state.FinalReport), 0o644); err != nil {
				return fmt.Errorf("saving report: %w", err)
			}
			logger.Printf("report saved to %s", outFile)
			return nil
		},
	}
	run.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./config)")
	run.Flags().StringVar(&sessionID, "session", agents.DefaultSessionID, "checkpoint session id")
	run.Flags().StringVarP(&outFile, "out", "o", "", "report output file")

	return run
}
