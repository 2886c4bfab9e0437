package formatter

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"

	"github.com/opsweep/opsweep/internal/models"
)

// PrintResourcesTable renders the unused resource findings with their
// estimated monthly cost. Load balancer rows carry the trailing traffic
// annotation when it was available.
func PrintResourcesTable(resources []models.UnusedResource) {
	if len(resources) == 0 {
		fmt.Println(text.FgGreen.Sprint("No unused resources found."))
		return
	}

	tw := table.Table{}
	tw.SetTitle("Unused AWS Resources")
	tw.AppendHeader(table.Row{"TYPE", "RESOURCE ID", "REGION", "MONTHLY COST", "DETAILS", "ACTIVITY (14D)"})
	for _, resource := range resources {
		tw.AppendRow(table.Row{
			resource.ResourceType,
			resource.ResourceID,
			resource.Region,
			money(resource.EstimatedMonthlyCost),
			resource.Details,
			activityCell(resource),
		})
	}
	tw.SetStyle(table.StyleRounded)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	fmt.Println(tw.Render())

	total := lo.SumBy(resources, func(r models.UnusedResource) float64 {
		return r.EstimatedMonthlyCost
	})
	fmt.Println()
	fmt.Println(text.Colors{text.FgGreen, text.Bold}.Sprintf("Total estimated monthly savings: %s", money(total)))
}

// PrintResourcesSummary groups the findings by resource type in the
// summary block style shared by the report tools.
func PrintResourcesSummary(resources []models.UnusedResource) {
	if len(resources) == 0 {
		return
	}

	type typeTotals struct {
		count int
		cost  float64
	}
	totals := make(map[string]typeTotals)
	for _, resource := range resources {
		entry := totals[resource.ResourceType]
		entry.count++
		entry.cost += resource.EstimatedMonthlyCost
		totals[resource.ResourceType] = entry
	}

	fmt.Println("\n## Findings by type")

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tCOUNT\tMONTHLY COST")

	types := lo.Keys(totals)
	sort.Strings(types)
	for _, resourceType := range types {
		entry := totals[resourceType]
		fmt.Fprintf(w, "%s\t%d\t%s\n", resourceType, entry.count, money(entry.cost))
	}
	w.Flush()
}

func activityCell(resource models.UnusedResource) string {
	if resource.ResourceType != models.ResourceTypeLoadBalancer {
		return "-"
	}
	if resource.ActivityMetric == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.0f", *resource.ActivityMetric)
}
