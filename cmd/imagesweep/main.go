package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/opsweep/opsweep/internal/config"
	"github.com/opsweep/opsweep/internal/version"
	"github.com/opsweep/opsweep/pkg/docker"
	"github.com/opsweep/opsweep/pkg/formatter"
)

var (
	minAgeDays   int
	danglingOnly bool
	dryRun       bool
	force        bool
	prune        bool
	logLevel     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "imagesweep",
		Short: "Clean up old and dangling Docker images",
		Long: `imagesweep lists local Docker images and removes dangling or old ones.
It runs in dry-run mode unless --force is given, and never removes
images whose tags match the configured keep list.`,
		Version: version.Get().String(),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			applyLogLevel()
			config.Load()
			_ = viper.BindPFlag(config.KeyMinAgeDays, cmd.Flags().Lookup("days"))
		},
		Run: func(cmd *cobra.Command, args []string) {
			run(cmd.Context())
		},
	}

	rootCmd.Flags().IntVarP(&minAgeDays, "days", "d", 30, "Remove images older than this many days")
	rootCmd.Flags().BoolVar(&danglingOnly, "dangling", false, "Only remove dangling images")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", true, "Show what would be removed without removing")
	rootCmd.Flags().BoolVar(&force, "force", false, "Actually remove images")
	rootCmd.Flags().BoolVar(&prune, "prune", false, "Prune stopped containers, unused images, networks and volumes afterwards")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logrus.InfoLevel.String(),
		"Log level (trace, debug, info, warning, error, fatal, panic)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run(ctx context.Context) {
	if force {
		dryRun = false
	}

	api, err := docker.NewEngineClient(ctx)
	if err != nil {
		logrus.Fatalf("Failed to connect to Docker: %v", err)
	}
	cleaner := docker.NewCleaner(api)

	days := config.MinAgeDays()

	var result docker.CleanupResult
	if danglingOnly {
		images, err := cleaner.DanglingImages(ctx)
		if err != nil {
			logrus.Errorf("Failed to list images: %v", err)
		}
		formatter.PrintImagesTable(images)

		result, err = cleaner.CleanupDangling(ctx, dryRun)
		if err != nil {
			logrus.Errorf("Failed to list images: %v", err)
		}
	} else {
		images, err := cleaner.ListImages(ctx, days, true)
		if err != nil {
			logrus.Errorf("Failed to list images: %v", err)
		}
		formatter.PrintImagesTable(images)

		result, err = cleaner.CleanupOld(ctx, days, config.KeepTags(), dryRun)
		if err != nil {
			logrus.Errorf("Failed to list images: %v", err)
		}
	}

	fmt.Println()
	fmt.Println(text.Colors{text.FgGreen, text.Bold}.Sprintf("Removed %d images, freed %.1fMB",
		result.Removed, result.FreedMB))

	if prune {
		printPruneResults(cleaner.PruneSystem(ctx, dryRun))
	}
}

func printPruneResults(results map[string]docker.PruneSummary) {
	if len(results) == 0 {
		return
	}

	fmt.Println()
	for _, category := range []string{"containers", "images", "networks", "volumes"} {
		summary, ok := results[category]
		if !ok {
			continue
		}
		fmt.Printf("Pruned %s: %d items, %s reclaimed\n",
			category, summary.ItemsDeleted, humanize.Bytes(summary.SpaceReclaimed))
	}
}

func applyLogLevel() {
	parsedLevel, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Errorf("log-level flag has invalid value %s", logLevel)
		return
	}
	logrus.SetLevel(parsedLevel)
}
