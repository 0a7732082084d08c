// NewsXpress - News Article Recommendation Service
// Copyright 2026 Dhruvil Patel
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Dhruvil05Patel/NewsXpress

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Dhruvil05Patel/NewsXpress/internal/config"
)

// configFile overrides CONFIG_PATH when set.
var configFile string

var rootCmd = &cobra.Command{
	Use:   "newsxpress",
	Short: "News article recommendation service",
	Long: "NewsXpress serves similar, personalized and trending article recommendations " +
		"from precomputed model artifacts and keeps them fresh with a retraining scheduler.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configFile == "" {
			return nil
		}
		if _, err := os.Stat(configFile); err != nil {
			return fmt.Errorf("config file: %w", err)
		}
		return os.Setenv(config.ConfigPathEnvVar, configFile)
	},
}

// Execute runs the command line.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a YAML config file (overrides CONFIG_PATH)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(schedulerCmd)
	rootCmd.AddCommand(retrainCmd)
}
