package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/opsweep/opsweep/internal/config"
	"github.com/opsweep/opsweep/internal/models"
	"github.com/opsweep/opsweep/internal/version"
	"github.com/opsweep/opsweep/pkg/aws"
	"github.com/opsweep/opsweep/pkg/formatter"
	"github.com/opsweep/opsweep/pkg/utils"
)

var (
	regions  []string
	logLevel string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cloudsweep",
		Short: "Find unused AWS resources and estimate their monthly cost",
		Long: `cloudsweep scans AWS accounts for unattached EBS volumes, idle load
balancers, unused Elastic IPs and stale ECR repositories, and estimates
the monthly cost of keeping them around.`,
		Version: version.Get().String(),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			applyLogLevel()
			config.Load()
			_ = viper.BindPFlag(config.KeyRegions, cmd.Flags().Lookup("region"))
		},
		Run: func(cmd *cobra.Command, args []string) {
			run(cmd.Context())
		},
	}

	rootCmd.Flags().StringSliceVarP(&regions, "region", "r", nil,
		"AWS regions to scan (comma separated, default: all enabled regions)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logrus.InfoLevel.String(),
		"Log level (trace, debug, info, warning, error, fatal, panic)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run(ctx context.Context) {
	scanner, err := aws.NewScanner(ctx)
	if err != nil {
		logrus.Fatalf("Error creating AWS scanner: %v", err)
	}

	scanRegions := resolveRegions(ctx, scanner)
	if len(scanRegions) == 0 {
		fmt.Println("No valid regions to scan. Exiting.")
		return
	}

	fmt.Println("Starting unused resource scan ...")
	for _, region := range scanRegions {
		fmt.Printf("Scanning %s ...\n", region)
	}

	scanStartTime := time.Now()
	s := spinner.New(spinner.CharSets[9], 200*time.Millisecond)
	s.Suffix = " Analyzing unused resources ..."
	s.Start()

	outcomes := scanner.Scan(ctx, scanRegions)
	scanDuration := time.Since(scanStartTime)

	findings := lo.FlatMap(outcomes, func(outcome aws.CheckOutcome, _ int) []models.UnusedResource {
		return outcome.Findings
	})

	s.FinalMSG = fmt.Sprintf("✓ [%d resources found] %d regions analyzed - Completed in %.2f seconds\n",
		len(findings), len(scanRegions), scanDuration.Seconds())
	s.Stop()

	for _, outcome := range outcomes {
		if outcome.Failed() {
			logrus.Warnf("Check %s failed in %s: %v", outcome.Check, outcome.Region, outcome.Err)
		}
	}

	formatter.PrintResourcesTable(findings)
	formatter.PrintResourcesSummary(findings)
}

// resolveRegions picks explicitly requested regions when given, falling
// back to region discovery against the account.
func resolveRegions(ctx context.Context, scanner *aws.Scanner) []string {
	requested := config.Regions()
	if len(requested) == 0 {
		discovered, err := scanner.Regions(ctx)
		if err != nil {
			logrus.Fatalf("Error listing AWS regions: %v", err)
		}
		return discovered
	}

	valid := make([]string, 0, len(requested))
	for _, region := range requested {
		if !utils.IsValidRegion(region) {
			logrus.Warnf("Skipping invalid region %q", region)
			continue
		}
		valid = append(valid, region)
	}
	return valid
}

func applyLogLevel() {
	parsedLevel, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Errorf("log-level flag has invalid value %s", logLevel)
		return
	}
	logrus.SetLevel(parsedLevel)
}
