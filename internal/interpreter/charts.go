package interpreter

import (
	"strings"
)

// ChartType pairs the keyword searched for in model output with the label
// reported to callers.
type ChartType struct {
	Keyword string
	Label   string
}

// Catalogue is the ordered set of chart types the interpreter recognises.
// Order here is the order recommendations are reported in.
var Catalogue = []ChartType{
	{Keyword: "bar", Label: "Bar Graph"},
	{Keyword: "line", Label: "Line Chart"},
	{Keyword: "pie", Label: "Pie Chart"},
	{Keyword: "scatter", Label: "Scatter Plot"},
	{Keyword: "radar", Label: "Radar Chart"},
	{Keyword: "boxplot", Label: "Box Plot"},
	{Keyword: "heatmap", Label: "Heat Map"},
}

// DefaultRecommendations is returned when no chart keyword matches.
var DefaultRecommendations = []string{"bar", "line"}

// Labels returns the catalogue labels in order.
func Labels() []string {
	out := make([]string, len(Catalogue))
	for i, c := range Catalogue {
		out[i] = c.Label
	}
	return out
}

// ExtractChartTypes returns the label of every catalogue entry whose keyword
// occurs in text, case-insensitively, in catalogue order. It returns nil when
// nothing matches.
func ExtractChartTypes(text string) []string {
	lower := strings.ToLower(text)

	var found []string
	for _, c := range Catalogue {
		if strings.Contains(lower, c.Keyword) {
			found = appendUnique(found, c.Label)
		}
	}
	return found
}

// ExtractColumns returns every column whose name occurs in text,
// case-insensitively, in column order. It returns nil when nothing matches.
func ExtractColumns(text string, columns []string) []string {
	lower := strings.ToLower(text)

	var found []string
	for _, col := range columns {
		if strings.Contains(lower, strings.ToLower(col)) {
			found = append(found, col)
		}
	}
	return found
}

// lookupChart resolves an item from structured output against the catalogue
// by label or keyword.
func lookupChart(item string) (string, bool) {
	item = strings.TrimSpace(item)
	for _, c := range Catalogue {
		if strings.EqualFold(item, c.Label) || strings.EqualFold(item, c.Keyword) {
			return c.Label, true
		}
	}
	return "", false
}

func lookupColumn(item string, columns []string) (string, bool) {
	item = strings.TrimSpace(item)
	for _, col := range columns {
		if strings.EqualFold(item, col) {
			return col, true
		}
	}
	return "", false
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

func defaultColumns(columns []string) []string {
	n := 2
	if len(columns) < n {
		n = len(columns)
	}
	out := make([]string, n)
	copy(out, columns[:n])
	return out
}

func defaultRecommendations() []string {
	out := make([]string, len(DefaultRecommendations))
	copy(out, DefaultRecommendations)
	return out
}
