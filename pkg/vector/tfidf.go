package vector

import "github.com/chewxy/math32"

// TfidfVectorizer weights raw counts by smoothed inverse document frequency
// and L2-normalizes each row.
type TfidfVectorizer struct {
	counts *CountVectorizer
	idf    []float32
}

// NewTfidfVectorizer creates a vectorizer. A nil tokenizer uses DefaultTokenizer.
func NewTfidfVectorizer(tokenize Tokenizer) *TfidfVectorizer {
	return &TfidfVectorizer{counts: NewCountVectorizer(tokenize)}
}

// Fit learns the vocabulary and idf weights of docs.
func (v *TfidfVectorizer) Fit(docs []string) error {
	counts, err := v.counts.FitTransform(docs)
	if err != nil {
		return err
	}

	n := float32(len(docs))
	_, cols := counts.Shape()
	idf := make([]float32, cols)
	for col := 0; col < cols; col++ {
		df := 0
		for _, row := range counts {
			if row[col] > 0 {
				df++
			}
		}
		idf[col] = math32.Log((1+n)/(1+float32(df))) + 1
	}
	v.idf = idf
	return nil
}

// Transform weights docs with the fitted idf. Unknown terms are ignored and
// documents without known terms produce zero rows.
func (v *TfidfVectorizer) Transform(docs []string) (Matrix[float32], error) {
	if v.idf == nil {
		return nil, ErrNotFitted
	}
	counts, err := v.counts.Transform(docs)
	if err != nil {
		return nil, err
	}

	m := make(Matrix[float32], len(counts))
	for i, row := range counts {
		weighted := make([]float32, len(row))
		var norm float32
		for col, c := range row {
			w := float32(c) * v.idf[col]
			weighted[col] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math32.Sqrt(norm)
			for col := range weighted {
				weighted[col] /= norm
			}
		}
		m[i] = weighted
	}
	return m, nil
}

// FitTransform is Fit followed by Transform on the same documents.
func (v *TfidfVectorizer) FitTransform(docs []string) (Matrix[float32], error) {
	if err := v.Fit(docs); err != nil {
		return nil, err
	}
	return v.Transform(docs)
}

// FeatureNames returns the sorted vocabulary.
func (v *TfidfVectorizer) FeatureNames() []string {
	return v.counts.FeatureNames()
}

// IDF returns the learned idf weights in feature order.
func (v *TfidfVectorizer) IDF() []float32 {
	out := make([]float32, len(v.idf))
	copy(out, v.idf)
	return out
}
