// Command laura-stem prints a stemming report for a word list and a sample
// text, optionally next to reference stemmers and the full preprocessing
// pipeline.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/mnohosten/laura-stem/pkg/compare"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("laura-stem", flag.ContinueOnError)
	words := fs.String("words", strings.Join(DefaultWords, ","), "Comma-separated words to stem")
	sample := fs.String("text", DefaultText, "Text whose words are stemmed one by one (empty to skip)")
	format := fs.String("format", "text", "Output format: text, json or yaml")
	withCompare := fs.Bool("compare", false, "Add Porter, Snowball, lemma and singular columns")
	pipeline := fs.Bool("pipeline", false, "Run the full preprocessing pipeline on a sample sentence")
	if err := fs.Parse(args); err != nil {
		return err
	}

	opts := Options{
		Words:    splitWords(*words),
		Text:     *sample,
		Pipeline: *pipeline,
	}
	if *withCompare {
		comparer, err := compare.NewComparer()
		if err != nil {
			return err
		}
		opts.Comparer = comparer
	}

	report, err := BuildReport(ctx, opts)
	if err != nil {
		return err
	}
	return Render(stdout, report, *format)
}

func splitWords(s string) []string {
	var out []string
	for _, w := range strings.Split(s, ",") {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}
