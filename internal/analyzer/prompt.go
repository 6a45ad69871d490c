package analyzer

import (
	"fmt"
	"strings"

	"github.com/sozercan/chart-mole/internal/dataset"
	"github.com/sozercan/chart-mole/internal/interpreter"
)

const instructionTemplate = `As a data analysis expert, analyze this data and provide insights.
Format your response in these sections:
1. Key Findings
2. Metrics & Trends
3. Visualization Recommendations
4. Additional Insights
`

var structuredInstruction = fmt.Sprintf(`
After the sections, repeat your recommendations in machine-readable form:
<charts>comma-separated chart types chosen from: %s</charts>
<columns>comma-separated column names taken from the data sample</columns>
`, strings.Join(interpreter.Labels(), ", "))

// BuildPrompt composes the single payload sent to the model: the instruction
// template, the user's request verbatim and up to sampleSize records.
func BuildPrompt(userPrompt string, ds dataset.Dataset, sampleSize int, structured bool) (string, dataset.Dataset, error) {
	if strings.TrimSpace(userPrompt) == "" {
		return "", nil, ErrEmptyUserInput
	}
	if len(ds) == 0 {
		return "", nil, ErrEmptyDataset
	}

	sample := ds.Sample(sampleSize)
	rendered, err := sample.IndentJSON()
	if err != nil {
		return "", nil, fmt.Errorf("failed to render data sample: %w", err)
	}

	var b strings.Builder
	b.WriteString(instructionTemplate)
	if structured {
		b.WriteString(structuredInstruction)
	}
	fmt.Fprintf(&b, "\nUser Request: %s\n\nData Sample (first %d rows): %s", userPrompt, len(sample), rendered)

	return b.String(), sample, nil
}
