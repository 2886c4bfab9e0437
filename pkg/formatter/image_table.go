package formatter

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"

	"github.com/opsweep/opsweep/internal/models"
)

// PrintImagesTable renders local images, newest ages first as listed,
// showing at most the first two tags per image.
func PrintImagesTable(images []models.ImageInfo) {
	tw := table.Table{}
	tw.SetTitle("Docker Images")
	tw.AppendHeader(table.Row{"IMAGE ID", "TAGS", "SIZE", "AGE (DAYS)"})
	for _, img := range images {
		tw.AppendRow(table.Row{
			img.ID,
			strings.Join(lo.Slice(img.Tags, 0, 2), "\n"),
			fmt.Sprintf("%.1fMB", img.SizeMB),
			fmt.Sprintf("%.0f", img.AgeDays),
		})
	}
	tw.SetStyle(table.StyleRounded)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	fmt.Println(tw.Render())

	totalMB := lo.SumBy(images, func(img models.ImageInfo) float64 {
		return img.SizeMB
	})
	fmt.Printf("\nTotal: %d images, %.2fGB\n", len(images), totalMB/1024)
}
