// Package stemmer implements a Porter stemmer that reduces English words to an
// approximate root by running eight ordered suffix rewrite steps.
//
// All functions are pure and safe for concurrent use.
package stemmer

import (
	"strings"
	"unicode/utf8"
)

// MinLength is the shortest word the pipeline touches. Shorter words are
// returned as given, including their casing.
const MinLength = 3

// step pairs a pipeline stage with its conventional Porter name.
type step struct {
	name string
	fn   func(string) string
}

var pipeline = []step{
	{"1a", step1a},
	{"1b", step1b},
	{"1c", step1c},
	{"2", step2},
	{"3", step3},
	{"4", step4},
	{"5a", step5a},
	{"5b", step5b},
}

// Stem reduces word to its Porter stem.
func Stem(word string) string {
	if utf8.RuneCountInString(word) < MinLength {
		return word
	}

	stem := strings.ToLower(word)
	for _, s := range pipeline {
		stem = s.fn(stem)
	}
	return stem
}

// StepResult is the word value after one pipeline step.
type StepResult struct {
	Step    string `json:"step"`
	Output  string `json:"output"`
	Changed bool   `json:"changed"`
}

// Trace records how a word moves through the pipeline.
type Trace struct {
	Word    string       `json:"word"`
	Pattern string       `json:"pattern"`
	Measure int          `json:"measure"`
	Bypass  bool         `json:"bypass"`
	Steps   []StepResult `json:"steps,omitempty"`
	Stem    string       `json:"stem"`
}

// TraceStem runs the pipeline like Stem and keeps every intermediate value.
// Pattern and Measure describe the lower-cased input word.
func TraceStem(word string) Trace {
	lower := strings.ToLower(word)
	t := Trace{
		Word:    word,
		Pattern: Pattern(lower),
		Measure: Measure(lower),
	}

	if utf8.RuneCountInString(word) < MinLength {
		t.Bypass = true
		t.Stem = word
		return t
	}

	current := lower
	t.Steps = make([]StepResult, 0, len(pipeline))
	for _, s := range pipeline {
		next := s.fn(current)
		t.Steps = append(t.Steps, StepResult{Step: s.name, Output: next, Changed: next != current})
		current = next
	}
	t.Stem = current

	return t
}
