// Package interpreter turns free-form model output into chart recommendations
// and suggested dataset columns.
package interpreter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// Source records which strategy produced a Result.
type Source string

const (
	SourceKeywords Source = "keywords"
	SourceTagged   Source = "tagged"
	SourceToolCall Source = "tool_call"
	SourceFallback Source = "fallback"
)

type Result struct {
	Text             string   `json:"text"`
	Recommendations  []string `json:"recommendations"`
	SuggestedColumns []string `json:"suggestedColumns"`
	Source           Source   `json:"source"`
}

// Structured holds chart labels and column names the model reported
// explicitly, already validated against the catalogue and dataset.
type Structured struct {
	Charts  []string `json:"charts"`
	Columns []string `json:"columns"`
}

// Hint tells Resolve which structured channels the request enabled.
type Hint struct {
	Tagged        bool
	ToolArguments string
}

var (
	listMarker = regexp.MustCompile(`\d+\.`)
	chartsTag  = regexp.MustCompile(`(?is)<charts>(.*?)</charts>`)
	columnsTag = regexp.MustCompile(`(?is)<columns>(.*?)</columns>`)
	itemSep    = regexp.MustCompile(`[,;\n]`)
)

// scan is swapped out in tests to exercise the recovery path.
var scan = func(section string, columns []string) ([]string, []string) {
	return ExtractChartTypes(section), ExtractColumns(section, columns)
}

// SelectSection splits text on numbered list markers and returns the first
// section mentioning a visualization or chart, or "" when none does.
func SelectSection(text string) string {
	for _, s := range listMarker.Split(text, -1) {
		if s == "" {
			continue
		}
		lower := strings.ToLower(s)
		if strings.Contains(lower, "visualization") || strings.Contains(lower, "chart") {
			return s
		}
	}
	return ""
}

// Interpret scans the visualization section of text for chart keywords and
// column names. Missing results fall back to ["bar", "line"] and the first two
// columns. It never fails: a panic during scanning yields Fallback.
func Interpret(text string, columns []string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("Failed to interpret model response, using defaults", "error", fmt.Sprint(r))
			res = Fallback(text, columns)
		}
	}()

	section := SelectSection(text)
	charts, cols := scan(section, columns)

	if len(charts) == 0 {
		charts = defaultRecommendations()
	}
	if len(cols) == 0 {
		cols = defaultColumns(columns)
	}

	return Result{
		Text:             text,
		Recommendations:  charts,
		SuggestedColumns: cols,
		Source:           SourceKeywords,
	}
}

// Fallback is the safe default result.
func Fallback(text string, columns []string) Result {
	return Result{
		Text:             text,
		Recommendations:  defaultRecommendations(),
		SuggestedColumns: defaultColumns(columns),
		Source:           SourceFallback,
	}
}

// ParseTagged reads <charts> and <columns> blocks from text. Items are
// separated by commas, semicolons or newlines; unknown items are dropped.
func ParseTagged(text string, columns []string) (Structured, bool) {
	var s Structured
	if m := chartsTag.FindStringSubmatch(text); m != nil {
		s.Charts = splitItems(m[1])
	}
	if m := columnsTag.FindStringSubmatch(text); m != nil {
		s.Columns = splitItems(m[1])
	}
	return validate(s, columns)
}

// ParseToolArguments decodes the arguments of a recommend_visualization call.
func ParseToolArguments(args string, columns []string) (Structured, bool) {
	var s Structured
	if err := json.Unmarshal([]byte(args), &s); err != nil {
		slog.Debug("Ignoring malformed tool arguments", "error", err)
		return Structured{}, false
	}
	return validate(s, columns)
}

// FromStructured builds a Result from validated structured output, applying
// the same fallbacks as Interpret.
func FromStructured(s Structured, text string, columns []string, source Source) Result {
	res := Result{
		Text:             text,
		Recommendations:  s.Charts,
		SuggestedColumns: s.Columns,
		Source:           source,
	}
	if len(res.Recommendations) == 0 {
		res.Recommendations = defaultRecommendations()
	}
	if len(res.SuggestedColumns) == 0 {
		res.SuggestedColumns = defaultColumns(columns)
	}
	return res
}

// Resolve prefers tool-call arguments, then tagged output, then the keyword
// scan of prose.
func Resolve(text string, columns []string, hint Hint) Result {
	if hint.ToolArguments != "" {
		if s, ok := ParseToolArguments(hint.ToolArguments, columns); ok {
			return FromStructured(s, text, columns, SourceToolCall)
		}
	}
	if hint.Tagged {
		if s, ok := ParseTagged(text, columns); ok {
			return FromStructured(s, text, columns, SourceTagged)
		}
	}
	return Interpret(text, columns)
}

func splitItems(block string) []string {
	var out []string
	for _, item := range itemSep.Split(block, -1) {
		item = strings.Trim(strings.TrimSpace(item), `-*"'`+"`")
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func validate(s Structured, columns []string) (Structured, bool) {
	var out Structured
	for _, c := range s.Charts {
		if label, ok := lookupChart(c); ok {
			out.Charts = appendUnique(out.Charts, label)
		}
	}
	for _, c := range s.Columns {
		if col, ok := lookupColumn(c, columns); ok {
			out.Columns = appendUnique(out.Columns, col)
		}
	}
	return out, len(out.Charts) > 0 || len(out.Columns) > 0
}
