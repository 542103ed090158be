package heatmap

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Categories is the closed, ordered set of category labels a grid scores
// against. It is fixed for the lifetime of a run.
type Categories struct {
	labels []string
	index  map[string]int
}

// NewCategories builds a category set. At least one label is required and
// labels must be non-empty and unique.
func NewCategories(labels []string) (*Categories, error) {
	if len(labels) == 0 {
		return nil, eris.New("heatmap: no categories")
	}
	c := &Categories{
		labels: make([]string, 0, len(labels)),
		index:  make(map[string]int, len(labels)),
	}
	for _, l := range labels {
		if strings.TrimSpace(l) == "" {
			return nil, eris.New("heatmap: empty category label")
		}
		if _, dup := c.index[l]; dup {
			return nil, eris.Errorf("heatmap: duplicate category %q", l)
		}
		c.index[l] = len(c.labels)
		c.labels = append(c.labels, l)
	}
	return c, nil
}

// Len returns the number of categories.
func (c *Categories) Len() int { return len(c.labels) }

// Labels returns the labels in configured order.
func (c *Categories) Labels() []string {
	out := make([]string, len(c.labels))
	copy(out, c.labels)
	return out
}

// Index returns the position of label in the set.
func (c *Categories) Index(label string) (int, bool) {
	i, ok := c.index[label]
	return i, ok
}
