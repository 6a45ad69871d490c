// cmd/chart-mole/main.go
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/pflag"

	"github.com/sozercan/chart-mole/apimodels"
	"github.com/sozercan/chart-mole/internal/analyzer"
	"github.com/sozercan/chart-mole/internal/config"
	"github.com/sozercan/chart-mole/internal/dataset"
	"github.com/sozercan/chart-mole/internal/llm"
	"github.com/sozercan/chart-mole/internal/widget"
)

func main() {
	var (
		configPath = pflag.String("config", "", "path to an optional config file (yaml, toml or json)")
		dataPath   = pflag.StringP("data", "d", "", "dataset to analyze (.json, .csv or .tsv)")
		prompt     = pflag.StringP("prompt", "p", "", "analysis request; omit to start an interactive session")
		asJSON     = pflag.Bool("json", false, "print results as JSON")
	)
	pflag.Parse()

	if *dataPath == "" {
		fmt.Fprintln(os.Stderr, "--data is required")
		pflag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	config.SetupLogging(cfg.Log, os.Stderr)

	data, err := dataset.Load(*dataPath)
	if err != nil {
		log.Fatalf("failed to load dataset: %v", err)
	}

	llmProvider, err := llm.New(&cfg.LLM)
	if err != nil {
		log.Fatalf("failed to create LLM provider: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	w := widget.New(analyzer.New(llmProvider, cfg), data, printer(os.Stdout, *asJSON))

	if *prompt != "" {
		w.SetPrompt(*prompt)
		w.Submit(ctx)
		if msg := w.Err(); msg != "" {
			fmt.Fprintln(os.Stderr, "error:", msg)
			os.Exit(1)
		}
		return
	}

	runSession(ctx, w, os.Stdin, os.Stdout, len(data))
}

// runSession reads one request per line and submits it on Enter. It returns
// when input ends or ctx is cancelled, even while waiting for a line.
func runSession(ctx context.Context, w *widget.Widget, in io.Reader, out io.Writer, records int) {
	fmt.Fprintf(out, "Loaded %d records. Enter your analysis request (e.g. 'Generate sales reports for Q3 with charts').\n", records)

	lines := readLines(ctx, in)
	for {
		fmt.Fprint(out, "> ")

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				return
			}
			line = l
		}

		w.SetPrompt(line)
		if !w.CanSubmit() {
			continue
		}

		fmt.Fprintln(out, "Analyzing...")
		w.Submit(ctx)
		if msg := w.Err(); msg != "" {
			fmt.Fprintln(out, "error:", msg)
		}
	}
}

// readLines scans in on its own goroutine so a blocked read never holds up
// cancellation. The goroutine stays parked in Scan until in yields or closes.
func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

func printer(out io.Writer, asJSON bool) widget.CompletionFunc {
	return func(resp *apimodels.AnalysisResponse) {
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			_ = enc.Encode(resp)
			return
		}

		fmt.Fprintln(out, strings.TrimSpace(resp.Text))
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Recommended charts: %s\n", strings.Join(resp.Recommendations, ", "))
		fmt.Fprintf(out, "Suggested columns:  %s\n", strings.Join(resp.SuggestedColumns, ", "))
	}
}
