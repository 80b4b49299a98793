package collector

import (
	"path/filepath"
	"strings"
)

const resultSuffix = "_smelt.md"

// ResultItem is the converted output of one item.
type ResultItem struct {
	Identifier       string
	SourceIdentifier string
	Content          string
}

// ResultName derives the output name from a source name: "a.mp3" becomes "a_smelt.md".
// Names without an extension get the suffix too, so "pasted_text" becomes "pasted_text_smelt.md".
func ResultName(source string) string {
	return strings.TrimSuffix(source, filepath.Ext(source)) + resultSuffix
}

// NewResult builds the result for a completed source.
func NewResult(source, content string) ResultItem {
	return ResultItem{
		Identifier:       ResultName(source),
		SourceIdentifier: source,
		Content:          content,
	}
}

func (c *implCollector) Append(result ResultItem) {
	c.pending = append(c.pending, result)
	c.sources[result.SourceIdentifier] = struct{}{}
}

func (c *implCollector) Contains(sourceIdentifier string) bool {
	_, ok := c.sources[sourceIdentifier]
	return ok
}

func (c *implCollector) Finalize() []ResultItem {
	c.finalized = make([]ResultItem, len(c.pending))
	copy(c.finalized, c.pending)
	c.done = true
	return c.snapshot()
}

func (c *implCollector) Results() ([]ResultItem, bool) {
	if !c.done {
		return nil, false
	}
	return c.snapshot(), true
}

func (c *implCollector) snapshot() []ResultItem {
	out := make([]ResultItem, len(c.finalized))
	copy(out, c.finalized)
	return out
}

func (c *implCollector) Len() int {
	return len(c.pending)
}

func (c *implCollector) Clear() {
	c.pending = nil
	c.finalized = nil
	c.sources = make(map[string]struct{})
	c.done = false
}
