// Package report renders a dashboard summary as JSON, YAML or a terminal
// text view.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"fjacquet/budget-dashboard/internal/currencyutils"
	"fjacquet/budget-dashboard/internal/dashboard"
	"fjacquet/budget-dashboard/internal/dateutils"
	"fjacquet/budget-dashboard/internal/logging"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Supported formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// barWidth is the width in cells of the longest bar.
const barWidth = 30

// Generator renders dashboard summaries.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(logger logging.Logger) *Generator {
	return &Generator{logger: logger.WithField("component", "ReportGenerator")}
}

// Generate renders summary in format (text, json or yaml).
func (g *Generator) Generate(summary dashboard.Summary, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatText, "":
		return []byte(g.text(summary)), nil
	case FormatJSON:
		return g.json(summary)
	case FormatYAML, "yml":
		return g.yaml(summary)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *Generator) json(summary dashboard.Summary) ([]byte, error) {
	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return append(out, '\n'), nil
}

func (g *Generator) yaml(summary dashboard.Summary) ([]byte, error) {
	out, err := yaml.Marshal(summary)
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return out, nil
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	kpiStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
	incomeBar    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	expenseBar   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	categoryBar  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	positiveText = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

func (g *Generator) text(s dashboard.Summary) string {
	var b strings.Builder

	net := currencyutils.FormatAmount(s.Totals.Net)
	if !s.Totals.Net.IsNegative() {
		net = positiveText.Render(net)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		kpiStyle.Render("Total Income\n"+currencyutils.FormatAmount(s.Totals.Income)),
		kpiStyle.Render("Total Expenses\n"+currencyutils.FormatAmount(s.Totals.Expenses)),
		kpiStyle.Render("Net\n"+net),
	))
	b.WriteString("\n\n")

	scale := s.IncomeByMonth.Max()
	if m := s.ExpensesByMonth.Max(); m.GreaterThan(scale) {
		scale = m
	}
	writeSeries(&b, "Income by Month", s.IncomeByMonth, scale, incomeBar)
	writeSeries(&b, "Expenses by Month", s.ExpensesByMonth, scale, expenseBar)

	b.WriteString(titleStyle.Render(fmt.Sprintf("Top %d Categories by Spend", len(s.TopCategories))))
	b.WriteString("\n")
	if len(s.TopCategories) == 0 {
		b.WriteString(mutedStyle.Render("No bills yet."))
		b.WriteString("\n")
	} else {
		top := s.TopCategories[0].Amount
		for _, c := range s.TopCategories {
			fmt.Fprintf(&b, "%-20s %s %s\n", c.Category, categoryBar.Render(bar(c.Amount, top)), currencyutils.FormatAmount(c.Amount))
		}
	}

	if s.UnnormalizedDates > 0 {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%d record(s) have dates that could not be normalized and are left out of the monthly series.", s.UnnormalizedDates)))
		b.WriteString("\n")
	}
	return b.String()
}

func writeSeries(b *strings.Builder, title string, series dashboard.MonthlySeries, scale decimal.Decimal, style lipgloss.Style) {
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	for i, v := range series {
		fmt.Fprintf(b, "%s %s %s\n", dateutils.Months[i], style.Render(bar(v, scale)), mutedStyle.Render(currencyutils.FormatAmount(v)))
	}
	b.WriteString("\n")
}

// bar draws v relative to scale. Non-zero values get at least one cell.
func bar(v, scale decimal.Decimal) string {
	if scale.Sign() <= 0 || v.Sign() <= 0 {
		return strings.Repeat(" ", barWidth)
	}
	n := int(v.Div(scale).Mul(decimal.NewFromInt(barWidth)).Round(0).IntPart())
	if n < 1 {
		n = 1
	}
	if n > barWidth {
		n = barWidth
	}
	return strings.Repeat("█", n) + strings.Repeat(" ", barWidth-n)
}
