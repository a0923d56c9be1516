package corpus

import (
	"math"
	"sort"
	"sync"

	"github.com/mnohosten/laura-stem/pkg/text"
)

// BM25 parameters
const (
	bm25K1 = 1.5  // term frequency saturation
	bm25B  = 0.75 // length normalization
)

// InvertedIndex maps stems to document IDs with term frequencies
type InvertedIndex struct {
	mu sync.RWMutex

	// stem -> postings
	index map[string]*PostingsList

	// document ID -> number of terms
	docLengths  map[string]int
	totalLength int

	analyzer *text.Analyzer
}

// PostingsList holds every document containing a stem
type PostingsList struct {
	// document ID -> term frequency
	Postings map[string]int
}

// DocFreq is the number of documents containing the stem.
func (p *PostingsList) DocFreq() int {
	return len(p.Postings)
}

// Hit is a scored search result.
type Hit struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// NewInvertedIndex creates an index that analyzes text with a. A nil analyzer
// uses text.NewAnalyzer().
func NewInvertedIndex(a *text.Analyzer) *InvertedIndex {
	if a == nil {
		a = text.NewAnalyzer()
	}
	return &InvertedIndex{
		index:      make(map[string]*PostingsList),
		docLengths: make(map[string]int),
		analyzer:   a,
	}
}

// Index adds a document, replacing any earlier version with the same ID.
func (idx *InvertedIndex) Index(docID, body string) {
	terms := idx.analyzer.Terms(body)

	termFreqs := make(map[string]int)
	for _, term := range terms {
		termFreqs[term]++
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.removeLocked(docID)

	for term, freq := range termFreqs {
		postings := idx.index[term]
		if postings == nil {
			postings = &PostingsList{Postings: make(map[string]int)}
			idx.index[term] = postings
		}
		postings.Postings[docID] = freq
	}

	idx.docLengths[docID] = len(terms)
	idx.totalLength += len(terms)
}

// Remove drops a document from the index. Unknown IDs are ignored.
func (idx *InvertedIndex) Remove(docID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.removeLocked(docID)
}

func (idx *InvertedIndex) removeLocked(docID string) {
	length, ok := idx.docLengths[docID]
	if !ok {
		return
	}

	for term, postings := range idx.index {
		if _, exists := postings.Postings[docID]; exists {
			delete(postings.Postings, docID)
			if postings.DocFreq() == 0 {
				delete(idx.index, term)
			}
		}
	}

	delete(idx.docLengths, docID)
	idx.totalLength -= length
}

// Search ranks documents containing any query stem by BM25. A limit of zero
// or less returns every hit. Ties are broken by ID.
func (idx *InvertedIndex) Search(query string, limit int) []Hit {
	terms := idx.analyzer.Terms(query)
	if len(terms) == 0 {
		return nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	scores := make(map[string]float64)
	for _, term := range terms {
		postings := idx.index[term]
		if postings == nil {
			continue
		}
		for docID, termFreq := range postings.Postings {
			scores[docID] += idx.bm25(docID, termFreq, postings.DocFreq())
		}
	}

	hits := make([]Hit, 0, len(scores))
	for docID, score := range scores {
		hits = append(hits, Hit{ID: docID, Score: score})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

func (idx *InvertedIndex) bm25(docID string, termFreq, docFreq int) float64 {
	avgDocLength := idx.avgDocLength()
	if avgDocLength == 0 {
		avgDocLength = 1
	}
	docLength := float64(idx.docLengths[docID])

	n := float64(len(idx.docLengths))
	df := float64(docFreq)
	idf := math.Log((n-df+0.5)/(df+0.5) + 1.0)

	tf := float64(termFreq)
	lengthNorm := 1.0 - bm25B + bm25B*(docLength/avgDocLength)
	return idf * (tf * (bm25K1 + 1.0)) / (tf + bm25K1*lengthNorm)
}

func (idx *InvertedIndex) avgDocLength() float64 {
	if len(idx.docLengths) == 0 {
		return 0
	}
	return float64(idx.totalLength) / float64(len(idx.docLengths))
}

// IndexStats describes the index.
type IndexStats struct {
	Documents    int     `json:"documents"`
	Terms        int     `json:"terms"`
	AvgDocLength float64 `json:"avg_document_length"`
}

// Stats returns statistics about the index
func (idx *InvertedIndex) Stats() IndexStats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return IndexStats{
		Documents:    len(idx.docLengths),
		Terms:        len(idx.index),
		AvgDocLength: idx.avgDocLength(),
	}
}

// Size returns the number of distinct stems in the index
func (idx *InvertedIndex) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.index)
}
