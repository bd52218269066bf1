package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/AngelCh415/marketing_analytics/internal/models"
	"github.com/AngelCh415/marketing_analytics/internal/utils"
)

// ExecutiveSummary renders the headline numbers of k as plain text.
func ExecutiveSummary(k models.KPISet, r models.DateRange) string {
	var b strings.Builder
	b.WriteString("EXECUTIVE SUMMARY\n")
	if !r.Start.IsZero() {
		fmt.Fprintf(&b, "%s to %s (%d days)\n", r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"), r.Days)
	}

	b.WriteString("\nRevenue Performance:\n")
	fmt.Fprintf(&b, "  Total Revenue: %s\n", FormatCurrency(k.TotalRevenue))
	fmt.Fprintf(&b, "  Total Orders: %s\n", FormatNumber(k.TotalOrders))
	fmt.Fprintf(&b, "  Average Order Value: %s\n", FormatCurrency(k.AOV))

	b.WriteString("\nMarketing Performance:\n")
	fmt.Fprintf(&b, "  Total Marketing Spend: %s\n", FormatCurrency(k.TotalSpend))
	fmt.Fprintf(&b, "  Average ROAS: %.2f\n", k.AvgROAS)
	fmt.Fprintf(&b, "  Marketing Efficiency: %s return over spend\n",
		FormatPercent(utils.SafeDiv(k.TotalRevenue-k.TotalSpend, k.TotalSpend)))

	b.WriteString("\nKey Insights:\n")
	fmt.Fprintf(&b, "  Marketing is generating %.2fx return on investment\n", k.AvgROAS)
	fmt.Fprintf(&b, "  %s of revenue is attributed to marketing efforts\n", FormatPercent(k.AttributionRate))
	fmt.Fprintf(&b, "  Average profit margin: %s\n", FormatPercent(k.AvgProfitMargin))
	return b.String()
}

// WriteInsights writes insights and recommendations as a bulleted text block.
func WriteInsights(w io.Writer, in models.Insights) error {
	sections := []struct {
		title string
		items []string
	}{
		{"INSIGHTS", in.Insights},
		{"RECOMMENDATIONS", in.Recommendations},
	}
	for _, s := range sections {
		if _, err := fmt.Fprintf(w, "%s:\n%s\n", s.title, strings.Repeat("-", len(s.title))); err != nil {
			return err
		}
		for _, item := range s.items {
			if _, err := fmt.Fprintf(w, "- %s\n", item); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
