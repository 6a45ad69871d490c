package tools

import (
	"github.com/openai/openai-go"

	"github.com/sozercan/chart-mole/internal/interpreter"
)

const RecommendVisualizationName = "recommend_visualization"

// RecommendVisualization returns the function tool the model may call to
// report chart types and columns explicitly instead of in prose.
func RecommendVisualization(columns []string) openai.ChatCompletionToolParam {
	columnItems := map[string]interface{}{
		"type": "string",
	}
	if len(columns) > 0 {
		columnItems["enum"] = columns
	}

	return openai.ChatCompletionToolParam{
		Type: openai.F(openai.ChatCompletionToolTypeFunction),
		Function: openai.F(openai.FunctionDefinitionParam{
			Name:        openai.String(RecommendVisualizationName),
			Description: openai.String("Report the chart types and dataset columns best suited to answer the user's request"),
			Parameters: openai.F(openai.FunctionParameters{
				"type": "object",
				"properties": map[string]interface{}{
					"charts": map[string]interface{}{
						"type":        "array",
						"description": "Recommended chart types, most suitable first",
						"items": map[string]interface{}{
							"type": "string",
							"enum": interpreter.Labels(),
						},
					},
					"columns": map[string]interface{}{
						"type":        "array",
						"description": "Dataset columns to plot",
						"items":       columnItems,
					},
				},
				"required": []string{"charts", "columns"},
			}),
		}),
	}
}

// Definitions returns every tool offered during analysis.
func Definitions(columns []string) []openai.ChatCompletionToolParam {
	return []openai.ChatCompletionToolParam{RecommendVisualization(columns)}
}
