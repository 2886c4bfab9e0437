package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/opsweep/opsweep/internal/config"
	"github.com/opsweep/opsweep/internal/models"
	"github.com/opsweep/opsweep/internal/version"
	"github.com/opsweep/opsweep/pkg/formatter"
	"github.com/opsweep/opsweep/pkg/kube"
)

var (
	namespace  string
	selector   string
	showAll    bool
	kubeconfig string
	logLevel   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "podcheck",
		Short: "Report Kubernetes pod health",
		Long: `podcheck lists pods and reports restart counts, stuck containers and
failed conditions. By default only pods with issues are shown; pass
--all to see every pod.`,
		Version: version.Get().String(),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			applyLogLevel()
			config.Load()
			_ = viper.BindPFlag(config.KeyNamespace, cmd.Flags().Lookup("namespace"))
		},
		Run: func(cmd *cobra.Command, args []string) {
			run(cmd.Context())
		},
	}

	rootCmd.Flags().StringVarP(&namespace, "namespace", "n", "",
		"Namespace to check (default: all namespaces)")
	rootCmd.Flags().StringVarP(&selector, "selector", "l", "", "Label selector to filter pods")
	rootCmd.Flags().BoolVar(&showAll, "all", false, "Show healthy pods too")
	rootCmd.Flags().StringVarP(&kubeconfig, "kubeconfig", "k", "",
		"Path to kubeconfig (default: in-cluster, then ~/.kube/config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logrus.InfoLevel.String(),
		"Log level (trace, debug, info, warning, error, fatal, panic)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run(ctx context.Context) {
	client, err := kube.NewClient(kubeconfig)
	if err != nil {
		logrus.Fatalf("Error creating Kubernetes client: %v", err)
	}
	checker := kube.NewChecker(client)

	pods, err := checker.PodHealth(ctx, config.Namespace(), selector)
	if err != nil {
		logrus.Errorf("Failed to list pods: %v", err)
		pods = []models.PodHealthInfo{}
	}

	formatter.PrintPodHealthTable(pods, showAll)
}

func applyLogLevel() {
	parsedLevel, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Errorf("log-level flag has invalid value %s", logLevel)
		return
	}
	logrus.SetLevel(parsedLevel)
}
