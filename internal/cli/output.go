package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var amounts = message.NewPrinter(language.English)

// formatAmount renders a monetary value with thousand separators.
func formatAmount(d decimal.Decimal) string {
	f, _ := d.Float64()
	return amounts.Sprintf("%.2f", f)
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return formatDate(*t)
}

// table writes aligned rows to w. Rows are tab-separated strings.
func table(w io.Writer, header string, rows []string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	for _, r := range rows {
		fmt.Fprintln(tw, r)
	}
	tw.Flush()
}
