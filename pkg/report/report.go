// Package report — сводка по разбиению train/validation: количество файлов
// по меткам в виде таблицы и столбчатой диаграммы.
package report

import (
	"fmt"
	"image/color"
	"io"
	"sort"
	"text/tabwriter"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ilkoid/poncho-dataset/pkg/dataset"
)

// Row — число файлов одной метки в каждой части.
type Row struct {
	Label      string
	Train      int
	Validation int
}

// Total возвращает Train + Validation.
func (r Row) Total() int {
	return r.Train + r.Validation
}

// Counts возвращает строку на каждую метку из любой части, по алфавиту.
func Counts(p *dataset.Partition) []Row {
	train := p.Train.Counts()
	val := p.Validation.Counts()

	labels := make(map[string]struct{}, len(train)+len(val))
	for l := range train {
		labels[l] = struct{}{}
	}
	for l := range val {
		labels[l] = struct{}{}
	}

	rows := make([]Row, 0, len(labels))
	for l := range labels {
		rows = append(rows, Row{Label: l, Train: train[l], Validation: val[l]})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Label < rows[j].Label })
	return rows
}

// WriteTable печатает выровненную таблицу с итоговой строкой.
func WriteTable(w io.Writer, rows []Row) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LABEL\tTRAIN\tVALIDATION\tTOTAL")

	var total Row
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", r.Label, r.Train, r.Validation, r.Total())
		total.Train += r.Train
		total.Validation += r.Validation
	}
	fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", "(all)", total.Train, total.Validation, total.Total())
	return tw.Flush()
}

// SaveChart сохраняет в path диаграмму: train и validation рядом для
// каждой метки. Формат по расширению: png, svg, pdf.
func SaveChart(path string, rows []Row) error {
	if len(rows) == 0 {
		return fmt.Errorf("report: nothing to plot")
	}

	p := plot.New()
	p.Title.Text = "Files per label"
	p.Y.Label.Text = "files"

	train := make(plotter.Values, len(rows))
	val := make(plotter.Values, len(rows))
	names := make([]string, len(rows))
	for i, r := range rows {
		train[i] = float64(r.Train)
		val[i] = float64(r.Validation)
		names[i] = r.Label
	}

	width := vg.Points(14)

	tb, err := plotter.NewBarChart(train, width)
	if err != nil {
		return err
	}
	tb.Color = color.RGBA{R: 20, G: 80, B: 200, A: 255}
	tb.LineStyle.Width = vg.Length(0)
	tb.Offset = -width / 2

	vb, err := plotter.NewBarChart(val, width)
	if err != nil {
		return err
	}
	vb.Color = color.RGBA{R: 200, G: 30, B: 30, A: 255}
	vb.LineStyle.Width = vg.Length(0)
	vb.Offset = width / 2

	p.Add(tb, vb)
	p.Legend.Add("train", tb)
	p.Legend.Add("validation", vb)
	p.Legend.Top = true
	p.NominalX(names...)

	chartWidth := vg.Points(float64(120 + 60*len(rows)))
	return p.Save(chartWidth, 4*vg.Inch, path)
}
