package studio

import (
	"bytes"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const compositionChartHeight = "360px"

// Composition counts component types per page.
type Composition map[PageName]map[ComponentType]int

// CompositionOf counts every node of every page, nested children included.
func CompositionOf(site SiteSchema) Composition {
	out := Composition{}
	for page, schema := range site {
		counts := map[ComponentType]int{}
		schema.Walk(func(_ SectionType, n Node) bool {
			counts[n.Type]++
			return true
		})
		out[page] = counts
	}
	return out
}

// Pages returns the counted pages in site order.
func (c Composition) Pages() []PageName {
	out := make([]PageName, 0, len(c))
	for _, page := range Pages {
		if _, ok := c[page]; ok {
			out = append(out, page)
		}
	}
	return out
}

// Types returns the component types present in toolbox order. Unknown types come last.
func (c Composition) Types() []ComponentType {
	present := map[ComponentType]bool{}
	for _, counts := range c {
		for t := range counts {
			present[t] = true
		}
	}
	out := make([]ComponentType, 0, len(present))
	for _, t := range ComponentTypes() {
		if present[t] {
			out = append(out, t)
			delete(present, t)
		}
	}
	extra := make([]ComponentType, 0, len(present))
	for t := range present {
		extra = append(extra, t)
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(out, extra...)
}

// Total counts a type across pages.
func (c Composition) Total(t ComponentType) int {
	total := 0
	for _, counts := range c {
		total += counts[t]
	}
	return total
}

// CompositionChartOptions tunes the chart.
type CompositionChartOptions struct {
	Title      string
	Subtitle   string
	Theme      string
	AssetsHost string
}

// RenderCompositionChart writes a stacked bar chart, one series per page.
func RenderCompositionChart(w io.Writer, c Composition, chartOpts CompositionChartOptions) error {
	if chartOpts.Title == "" {
		chartOpts.Title = "Composición del sitio"
	}
	if chartOpts.Theme == "" {
		chartOpts.Theme = types.ThemeWesteros
	}
	initOpts := opts.Initialization{
		Theme:  chartOpts.Theme,
		Width:  "100%",
		Height: compositionChartHeight,
	}
	if chartOpts.AssetsHost != "" {
		initOpts.AssetsHost = chartOpts.AssetsHost
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: chartOpts.Title, Subtitle: chartOpts.Subtitle}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	componentTypes := c.Types()
	axis := make([]string, len(componentTypes))
	for i, t := range componentTypes {
		axis[i] = string(t)
	}
	bar.SetXAxis(axis)
	for _, page := range c.Pages() {
		data := make([]opts.BarData, len(componentTypes))
		for i, t := range componentTypes {
			data[i] = opts.BarData{Name: string(t), Value: c[page][t]}
		}
		bar.AddSeries(string(page), data, charts.WithBarChartOpts(opts.BarChart{Stack: "pages"}))
	}
	return bar.Render(w)
}

// CompositionChartHTML renders the chart into a string.
func CompositionChartHTML(c Composition, chartOpts CompositionChartOptions) (string, error) {
	var buf bytes.Buffer
	if err := RenderCompositionChart(&buf, c, chartOpts); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// chartTheme picks an echarts theme matching the storefront theme.
func chartTheme(theme Theme) string {
	if theme.Dark {
		return types.ThemeChalk
	}
	return types.ThemeWesteros
}
