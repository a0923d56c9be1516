package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mnohosten/laura-stem/pkg/compare"
	"github.com/mnohosten/laura-stem/pkg/stemmer"
	"github.com/mnohosten/laura-stem/pkg/text"
)

// DefaultWords is the word list stemmed when -words is not given.
var DefaultWords = []string{
	"consulting", "computer", "national", "beautiful", "generously",
	"university", "organization", "multiply", "happiness", "connection",
	"agreed", "caring", "fixes", "dogs", "matrices", "denial", "activate",
}

// DefaultText is the sample paragraph stemmed word by word when -text is not given.
const DefaultText = "Implementing my own custom stemming algorithms requires careful attention to detailed rules defined. " +
	"Here is an example Born into slavery in February 1818, Elizabeth Hobbs Keckley was the daughter of her owner, " +
	"Armistead Burwell, and his house slave, Agnes. Elizabeth Keckley began working as a nursemaid when she was four " +
	"years old, and endured years of beatings and rape, the latter of which resulted in a pregnancy. However, one part " +
	"of her childhood would eventually save her: from her mother, Elizabeth Keckley had learned how to sew."

// Row is one stemmed word.
type Row struct {
	Word      string              `json:"word" yaml:"word"`
	Raw       string              `json:"raw" yaml:"raw"`
	Corrected string              `json:"corrected" yaml:"corrected"`
	Compare   *compare.Comparison `json:"compare,omitempty" yaml:"compare,omitempty"`
}

// Report is everything the command prints.
type Report struct {
	Words    []Row     `json:"words" yaml:"words"`
	Text     []Row     `json:"text,omitempty" yaml:"text,omitempty"`
	Pipeline *Pipeline `json:"pipeline,omitempty" yaml:"pipeline,omitempty"`
}

// Options selects what goes into a Report.
type Options struct {
	Words    []string
	Text     string
	Comparer *compare.Comparer // adds reference stems to the word table when set
	Pipeline bool
}

// BuildReport stems the word list and the words of the sample text.
func BuildReport(ctx context.Context, opts Options) (*Report, error) {
	rows, err := stemRows(ctx, opts.Words)
	if err != nil {
		return nil, err
	}

	if opts.Comparer != nil {
		cmps, err := opts.Comparer.CompareAll(ctx, opts.Words)
		if err != nil {
			return nil, err
		}
		for i := range rows {
			rows[i].Compare = &cmps[i]
		}
	}

	report := &Report{Words: rows}

	if opts.Text != "" {
		words := strings.Fields(strings.ToLower(text.RemovePunctuation(opts.Text)))
		if report.Text, err = stemRows(ctx, words); err != nil {
			return nil, err
		}
	}

	if opts.Pipeline {
		if report.Pipeline, err = RunPipeline(PipelineSentence); err != nil {
			return nil, err
		}
	}
	return report, nil
}

func stemRows(ctx context.Context, words []string) ([]Row, error) {
	results, err := stemmer.StemAll(ctx, words, nil)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, len(results))
	for i, r := range results {
		rows[i] = Row{Word: r.Word, Raw: r.Stem, Corrected: r.Corrected}
	}
	return rows, nil
}

// Render writes the report in format: text, json or yaml.
func Render(w io.Writer, report *Report, format string) error {
	switch strings.ToLower(format) {
	case "", "text":
		return renderText(w, report)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml", "yml":
		out, err := yaml.MarshalWithOptions(report, yaml.Indent(2), yaml.IndentSequence(true))
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func renderText(w io.Writer, report *Report) error {
	p := &printer{w: w}

	withCompare := len(report.Words) > 0 && report.Words[0].Compare != nil

	p.println("Custom Porter Stemmer with Corrections")
	if withCompare {
		p.printf("%-15s | %-18s | %-18s | %-15s | %-15s | %-15s | %-15s\n",
			"Original Word", "Stemmed (Raw)", "Stemmed (Corrected)", "Porter", "Snowball", "Lemma", "Singular")
		p.println(strings.Repeat("-", 123))
	} else {
		p.printf("%-15s | %-18s | %-18s\n", "Original Word", "Stemmed (Raw)", "Stemmed (Corrected)")
		p.println(strings.Repeat("-", 55))
	}

	for _, row := range report.Words {
		if c := row.Compare; c != nil {
			p.printf("%-15s | %-18s | %-18s | %-15s | %-15s | %-15s | %-15s\n",
				row.Word, row.Raw, row.Corrected, c.Porter, c.Snowball, c.Lemma, c.Singular)
			continue
		}
		p.printf("%-15s | %-18s | %-18s\n", row.Word, row.Raw, row.Corrected)
	}

	if len(report.Text) > 0 {
		p.println("\n\nProcessing a Sample Text")
		for _, row := range report.Text {
			p.printf("'%s' -> Raw: '%s', Corrected: '%s'\n", row.Word, row.Raw, row.Corrected)
		}
	}

	if report.Pipeline != nil {
		p.println()
		report.Pipeline.render(p)
	}
	return p.err
}

// printer remembers the first write error so rendering code can stay linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err == nil {
		_, p.err = fmt.Fprintf(p.w, format, args...)
	}
}

func (p *printer) println(args ...any) {
	if p.err == nil {
		_, p.err = fmt.Fprintln(p.w, args...)
	}
}
