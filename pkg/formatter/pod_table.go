package formatter

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"

	"github.com/opsweep/opsweep/internal/models"
)

// Pod names longer than this are shortened in the report.
const maxPodNameWidth = 40

// PrintPodHealthTable renders the pod health report. Unless showAll is
// set only pods with issues or a phase other than Running appear. The
// trailing totals always count the full input.
func PrintPodHealthTable(pods []models.PodHealthInfo, showAll bool) {
	display := pods
	if !showAll {
		display = lo.Filter(pods, func(pod models.PodHealthInfo, _ int) bool {
			return !pod.Healthy()
		})
	}

	if len(display) == 0 {
		fmt.Println(text.FgGreen.Sprint("All pods are healthy."))
		return
	}

	tw := table.Table{}
	tw.SetTitle("Pod Health Report")
	tw.AppendHeader(table.Row{"NAMESPACE", "POD", "STATUS", "RESTARTS", "AGE (H)", "ISSUES"})
	for _, pod := range display {
		statusColor := text.FgRed
		if pod.Status == "Running" {
			statusColor = text.FgGreen
		}

		issues := "-"
		if len(pod.Issues) > 0 {
			issues = strings.Join(pod.Issues, "; ")
		}

		tw.AppendRow(table.Row{
			pod.Namespace,
			truncateString(pod.Name, maxPodNameWidth),
			statusColor.Sprint(pod.Status),
			pod.Restarts,
			fmt.Sprintf("%.1f", pod.AgeHours),
			issues,
		})
	}
	tw.SetStyle(table.StyleRounded)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	fmt.Println(tw.Render())

	healthy := lo.CountBy(pods, func(pod models.PodHealthInfo) bool {
		return pod.Healthy()
	})
	fmt.Printf("\nTotal: %d pods | Healthy: %d | Issues: %d\n", len(pods), healthy, len(pods)-healthy)
}
