package tableview

import (
	"bufio"
	"html/template"
	"io"
	"strings"

	"fjacquet/budget-dashboard/internal/currencyutils"
	"fjacquet/budget-dashboard/internal/models"

	"github.com/shopspring/decimal"
)

// ExportCSV writes the filtered, sorted rows (all pages) with the column
// labels as header. Text cells are always quoted; numbers are written bare.
func (v *View) ExportCSV(w io.Writer) error {
	bw := bufio.NewWriter(w)
	labels := make([]string, len(v.cfg.Columns))
	for i, col := range v.cfg.Columns {
		labels[i] = quote(col.Label)
	}
	if _, err := bw.WriteString(strings.Join(labels, ",") + "\n"); err != nil {
		return err
	}
	for _, rec := range v.Rows() {
		cells := make([]string, len(v.cfg.Columns))
		for i, col := range v.cfg.Columns {
			val, _ := rec.Field(col.Key)
			if d, ok := val.(decimal.Decimal); ok && col.Kind == Number {
				cells[i] = d.String()
				continue
			}
			cells[i] = quote(models.FieldText(val))
		}
		if _, err := bw.WriteString(strings.Join(cells, ",") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

var printTemplate = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 24px; }
table { border-collapse: collapse; width: 100%; font-size: 12px; }
th, td { border: 1px solid #ccc; padding: 6px 8px; text-align: left; }
th { background: #f5f5f4; }
tr:nth-child(even) td { background: #fafaf9; }
td.num { text-align: right; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<table>
<thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td{{if .Numeric}} class="num"{{end}}>{{.Text}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
</body>
</html>
`))

type printCell struct {
	Text    string
	Numeric bool
}

// ExportHTML writes a printable HTML page of the filtered, sorted rows.
func (v *View) ExportHTML(w io.Writer) error {
	data := struct {
		Title   string
		Headers []string
		Rows    [][]printCell
	}{Title: v.cfg.Title}

	for _, col := range v.cfg.Columns {
		data.Headers = append(data.Headers, col.Label)
	}
	for _, rec := range v.Rows() {
		row := make([]printCell, len(v.cfg.Columns))
		for i, col := range v.cfg.Columns {
			row[i] = printCell{Text: displayText(rec, col), Numeric: col.Kind == Number}
		}
		data.Rows = append(data.Rows, row)
	}
	return printTemplate.Execute(w, data)
}

// displayText formats a cell for people: amounts as currency, the rest as text.
func displayText(rec models.Record, col Column) string {
	val, _ := rec.Field(col.Key)
	if d, ok := val.(decimal.Decimal); ok && col.Kind == Number {
		return currencyutils.FormatAmount(d)
	}
	text := models.FieldText(val)
	if tags, ok := val.(models.Tags); ok {
		text = strings.Join(tags, ", ")
	}
	return text
}
