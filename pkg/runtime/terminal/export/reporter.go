package export

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"text/template"

	"github.com/fin-tools/value-atlas/pkg/models/domain"
)

type TableConfig struct {
	NameWidth        int
	ValueWidth       int
	UnitWidth        int
	DescriptionWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		NameWidth:        28,
		ValueWidth:       24,
		UnitWidth:        6,
		DescriptionWidth: 44,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

type metric struct {
	Name        string
	Value       string
	Unit        string
	Description string
}

func (c *Reporter) Handle(report domain.Report) error {
	funcMap := template.FuncMap{
		"formatRow": func(name, value, unit, desc string) string {
			return fmt.Sprintf("| %-*s | %-*s | %-*s | %-*s |",
				c.config.NameWidth, name,
				c.config.ValueWidth, value,
				c.config.UnitWidth, unit,
				c.config.DescriptionWidth, desc)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.NameWidth+2),
				strings.Repeat("-", c.config.ValueWidth+2),
				strings.Repeat("-", c.config.UnitWidth+2),
				strings.Repeat("-", c.config.DescriptionWidth+2))
		},
	}

	tmpl := `
Valuation Report for {{.Ticker}}
Status: {{.Status}}

{{separator}}
{{formatRow "Metric" "Value" "Unit" "Description"}}
{{separator}}
{{range .Metrics}}{{formatRow .Name .Value .Unit .Description}}
{{end}}{{separator}}
`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, struct {
		Ticker  string
		Status  string
		Metrics []metric
	}{
		Ticker:  report.Ticker,
		Status:  string(report.ValuationStatus),
		Metrics: metrics(report),
	})
}

func metrics(report domain.Report) []metric {
	return []metric{
		{
			Name:        "Stock Price",
			Value:       fmt.Sprintf("%.2f", report.StockPrice),
			Unit:        "USD",
			Description: "Latest market quote",
		},
		{
			Name:        "Mean Simulated Price",
			Value:       fmt.Sprintf("%.2f", report.MeanSimulatedPrice),
			Unit:        "USD",
			Description: "Average implied value across valid trials",
		},
		{
			Name: fmt.Sprintf("%.0f%% Confidence Interval", report.Interval.Confidence*100),
			Value: fmt.Sprintf("%.2f to %.2f",
				report.Interval.Lower, report.Interval.Upper),
			Unit:        "USD",
			Description: "Percentile bounds of the simulated prices",
		},
		{
			Name:        "Revenue (TTM)",
			Value:       humanAmount(report.Revenue),
			Unit:        "USD",
			Description: "Most recent reported total revenue",
		},
		{
			Name:        "Free Cash Flow (TTM)",
			Value:       humanAmount(report.FreeCashFlow),
			Unit:        "USD",
			Description: "Operating cash flow less capital expenditures",
		},
		{
			Name:        "FCF Margin",
			Value:       fmt.Sprintf("%.2f", report.FCFMargin*100),
			Unit:        "%",
			Description: "Free cash flow as a share of revenue",
		},
		{
			Name:        "Analyst Growth Estimate",
			Value:       fmt.Sprintf("%.2f", report.AnalystGrowth.Rate*100),
			Unit:        "%",
			Description: fmt.Sprintf("Source: %s", report.AnalystGrowth.Source),
		},
		{
			Name:        "Discount Rate",
			Value:       fmt.Sprintf("%.2f", report.Discount.Rate*100),
			Unit:        "%",
			Description: fmt.Sprintf("Method: %s", report.Discount.Method),
		},
		{
			Name:        "Valid Simulations",
			Value:       fmt.Sprintf("%d", report.Simulations),
			Unit:        "",
			Description: "Trials that produced a positive implied value",
		},
	}
}

// humanAmount renders large dollar amounts in T/B/M units.
func humanAmount(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1e12:
		return fmt.Sprintf("%.2fT", v/1e12)
	case abs >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
