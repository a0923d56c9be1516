package client

// StemResult is one stemmed word
type StemResult struct {
	Word      string `json:"word"`
	Stem      string `json:"stem"`
	Corrected string `json:"corrected"`
	Trace     *Trace `json:"trace,omitempty"`
}

// Trace lists the output of every pipeline step
type Trace struct {
	Word    string `json:"word"`
	Pattern string `json:"pattern"`
	Measure int    `json:"measure"`
	Bypass  bool   `json:"bypass"`
	Steps   []struct {
		Step    string `json:"step"`
		Output  string `json:"output"`
		Changed bool   `json:"changed"`
	} `json:"steps,omitempty"`
	Stem string `json:"stem"`
}

// Token is an analyzed token
type Token struct {
	Original   string `json:"original"`
	Normalized string `json:"normalized"`
	Stem       string `json:"stem"`
	Position   int    `json:"position"`
}

// Comparison is one word run through every stemmer the server knows
type Comparison struct {
	Word      string `json:"word"`
	Raw       string `json:"raw"`
	Corrected string `json:"corrected"`
	Porter    string `json:"porter"`
	Snowball  string `json:"snowball"`
	Lemma     string `json:"lemma"`
	Singular  string `json:"singular"`
}

// Vectors is a document-term matrix. Counts is set for bag-of-words,
// Weights for TF-IDF.
type Vectors struct {
	IDs      []string    `json:"ids,omitempty"`
	Mode     string      `json:"mode"`
	Features []string    `json:"features"`
	Counts   [][]int     `json:"counts,omitempty"`
	Weights  [][]float32 `json:"weights,omitempty"`
}

// Stem stems a single word. With trace the response includes every step.
func (c *Client) Stem(word string, trace bool) (*StemResult, error) {
	path := "/_stem/" + escape(word)
	if trace {
		path += "?trace=true"
	}
	var result StemResult
	if err := c.call("GET", path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// StemBatch stems words in order. When correct is false Corrected equals Stem.
func (c *Client) StemBatch(words []string, correct bool) ([]StemResult, error) {
	var results []StemResult
	body := map[string]any{"words": words, "correct": correct}
	if err := c.call("POST", "/_stem", body, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// Correct applies the server's correction table
func (c *Client) Correct(original, stemmed string) (string, error) {
	var result struct {
		Corrected string `json:"corrected"`
	}
	body := map[string]string{"original": original, "stemmed": stemmed}
	if err := c.call("POST", "/_correct", body, &result); err != nil {
		return "", err
	}
	return result.Corrected, nil
}

// Corrections returns the correction table
func (c *Client) Corrections() (map[string]string, error) {
	var table map[string]string
	if err := c.call("GET", "/_corrections", nil, &table); err != nil {
		return nil, err
	}
	return table, nil
}

// Analyze tokenizes text on the server
func (c *Client) Analyze(text string, correct bool) ([]Token, error) {
	var tokens []Token
	body := map[string]any{"text": text, "correct": correct}
	if err := c.call("POST", "/_analyze", body, &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

// Compare runs word through the reference stemmers
func (c *Client) Compare(word string) (*Comparison, error) {
	var result Comparison
	if err := c.call("GET", "/_compare/"+escape(word), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Vectorize builds a matrix over documents. mode is "bow" or "tfidf".
func (c *Client) Vectorize(documents []string, mode string, stem bool) (*Vectors, error) {
	var result Vectors
	body := map[string]any{"documents": documents, "mode": mode, "stem": stem}
	if err := c.call("POST", "/_vectorize", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
