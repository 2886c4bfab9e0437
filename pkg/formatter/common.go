package formatter

import "fmt"

// money renders a dollar amount with two decimals
func money(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

// truncateString shortens s to at most width display columns, appending
// ".." when it had to cut
func truncateString(s string, width int) string {
	if StringWidth(s) <= width {
		return s
	}

	truncated := ""
	currentWidth := 0
	for _, r := range s {
		charWidth := RuneWidth(r)
		if currentWidth+charWidth > width-2 {
			break
		}
		truncated += string(r)
		currentWidth += charWidth
	}
	return truncated + ".."
}
