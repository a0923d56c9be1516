package main

import (
	"strings"

	"github.com/mnohosten/laura-stem/pkg/stemmer"
	"github.com/mnohosten/laura-stem/pkg/text"
	"github.com/mnohosten/laura-stem/pkg/vector"
)

// PipelineSentence is the input of -pipeline.
const PipelineSentence = "This is a sample sentence, with some punctuations! Let's see how it works. " +
	"On this sentence we will perform various NLP tasks like tokenization, stop word removal, stemming, " +
	"and vectorization."

// Pipeline records every stage of the preprocessing pipeline for one sentence.
type Pipeline struct {
	Sentence  string         `json:"sentence" yaml:"sentence"`
	Tokens    []string       `json:"tokens" yaml:"tokens"`
	StopWords int            `json:"stop_words" yaml:"stop_words"`
	Filtered  []string       `json:"filtered" yaml:"filtered"`
	Stems     []string       `json:"stems" yaml:"stems"`
	BoW       *vector.Result `json:"bow" yaml:"bow"`
	Tfidf     *vector.Result `json:"tfidf" yaml:"tfidf"`
}

// RunPipeline strips punctuation, tokenizes, drops English stop words
// (case-insensitively, keeping the lower-cased survivors), stems without
// corrections and vectorizes the stems as a single document.
func RunPipeline(sentence string) (*Pipeline, error) {
	stopWords := text.EnglishStopWords()
	p := &Pipeline{
		Sentence:  sentence,
		Tokens:    text.Tokenize(sentence),
		StopWords: stopWords.Len(),
	}

	for _, tok := range p.Tokens {
		lower := strings.ToLower(tok)
		if stopWords.Contains(lower) {
			continue
		}
		p.Filtered = append(p.Filtered, lower)
		p.Stems = append(p.Stems, stemmer.Stem(lower))
	}

	doc := []string{strings.Join(p.Stems, " ")}
	var err error
	if p.BoW, err = vector.Vectorize(doc, vector.ModeBoW, nil); err != nil {
		return nil, err
	}
	if p.Tfidf, err = vector.Vectorize(doc, vector.ModeTfidf, nil); err != nil {
		return nil, err
	}
	return p, nil
}

func (pl *Pipeline) render(p *printer) {
	p.println("Tokenized words (after punctuation removal):")
	for _, tok := range pl.Tokens {
		p.println(tok)
	}
	p.printf("\nThere are %d stop words in the English list\n", pl.StopWords)

	p.println("\nWords in lower case listed without stop words:")
	for _, w := range pl.Filtered {
		p.println(w)
	}

	p.println("\nStemmed words:")
	for _, s := range pl.Stems {
		p.println(s)
	}

	p.println("\nVectorization BoW")
	p.printf("Vocabulary: %v\n", pl.BoW.Features)
	p.printf("BoW Vector: %v\n", [][]int(pl.BoW.Counts))

	p.println("\nVectorization TF-IDF")
	p.printf("Vocabulary: %v\n", pl.Tfidf.Features)
	p.printf("TF-IDF Vector: %.4f\n", [][]float32(pl.Tfidf.Weights))
}
