// Package convert runs extraction and rendering for one handle or a batch.
package convert

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/corey/pseudo/internal/domain/extractor"
	"github.com/corey/pseudo/internal/domain/renderer"
	"github.com/corey/pseudo/internal/ports"
)

// Converter turns type handles into pseudo-code text.
type Converter struct {
	ext *extractor.Extractor
}

// New creates a Converter around ext. A nil ext uses the default configuration.
func New(ext *extractor.Extractor) *Converter {
	if ext == nil {
		ext = extractor.New(extractor.DefaultConfig())
	}
	return &Converter{ext: ext}
}

// Convert extracts and renders a single type.
func (c *Converter) Convert(h ports.TypeHandle) (string, error) {
	decl, err := c.ext.Extract(h)
	if err != nil {
		return "", err
	}
	return renderer.Render(decl), nil
}

// Success is one converted handle. Index is its position in the input.
type Success struct {
	Index int
	Name  string
	Text  string
}

// Failure is one handle that could not be converted.
type Failure struct {
	Index int
	Name  string
	Err   error
}

// BatchResult holds the outcome of a batch. Both lists are in input order.
type BatchResult struct {
	Successes []Success
	Failures  []Failure
}

// Batch converts handles using at most workers goroutines (GOMAXPROCS when
// workers < 1). A failed handle is reported and skipped; the rest keep their
// relative order.
func (c *Converter) Batch(handles []ports.TypeHandle, workers int) BatchResult {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	type slot struct {
		text string
		err  error
	}
	slots := make([]slot, len(handles))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, h := range handles {
		g.Go(func() error {
			text, err := c.Convert(h)
			slots[i] = slot{text: text, err: err}
			return nil
		})
	}
	_ = g.Wait() // workers never return an error; failures live in slots

	var res BatchResult
	for i, s := range slots {
		if s.err != nil {
			res.Failures = append(res.Failures, Failure{Index: i, Name: handles[i].Name(), Err: s.err})
			continue
		}
		res.Successes = append(res.Successes, Success{Index: i, Name: handles[i].Name(), Text: s.text})
	}
	return res
}
