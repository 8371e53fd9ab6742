package gpu

import (
	"errors"
	"fmt"
	"slices"
)

// Pass graph errors.
var (
	ErrDuplicatePass     = errors.New("gpu: duplicate pass")
	ErrPassNoOutput      = errors.New("gpu: pass writes nothing")
	ErrMultipleWriters   = errors.New("gpu: attachment written by more than one pass")
	ErrUnknownAttachment = errors.New("gpu: attachment read but never produced")
	ErrFeedbackLoop      = errors.New("gpu: pass reads an attachment it writes")
	ErrPassCycle         = errors.New("gpu: pass graph has a cycle")
)

// Pass is one node of a PassGraph. Reads and Writes name attachments.
type Pass struct {
	Name   string
	Reads  []string
	Writes []string
}

// PassGraph is a render-pass DAG with declared attachments. Edges run from
// the pass writing an attachment to every pass reading it.
type PassGraph struct {
	imports map[string]bool
	passes  []Pass
}

// NewPassGraph returns an empty graph.
func NewPassGraph() *PassGraph {
	return &PassGraph{imports: make(map[string]bool)}
}

// Import declares attachments supplied from outside the graph, such as the
// glyph atlas or the caller's render target. An import may be read, and
// written by at most one pass.
func (g *PassGraph) Import(names ...string) {
	for _, n := range names {
		g.imports[n] = true
	}
}

// Add appends a pass.
func (g *PassGraph) Add(p Pass) {
	g.passes = append(g.passes, p)
}

// Len returns the number of passes.
func (g *PassGraph) Len() int { return len(g.passes) }

// writers maps each attachment to the index of the pass writing it.
func (g *PassGraph) writers() (map[string]int, error) {
	seen := make(map[string]bool, len(g.passes))
	w := make(map[string]int)
	for i, p := range g.passes {
		if seen[p.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePass, p.Name)
		}
		seen[p.Name] = true
		if len(p.Writes) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrPassNoOutput, p.Name)
		}
		for _, a := range p.Writes {
			if j, ok := w[a]; ok {
				return nil, fmt.Errorf("%w: %q by %q and %q", ErrMultipleWriters, a, g.passes[j].Name, p.Name)
			}
			if slices.Contains(p.Reads, a) {
				return nil, fmt.Errorf("%w: %q in %q", ErrFeedbackLoop, a, p.Name)
			}
			w[a] = i
		}
	}
	return w, nil
}

// Validate checks the graph without ordering it.
func (g *PassGraph) Validate() error {
	_, err := g.Order()
	return err
}

// Order validates the graph and returns its passes in an order where every
// attachment is written before it is read. Ties keep insertion order.
func (g *PassGraph) Order() ([]Pass, error) {
	w, err := g.writers()
	if err != nil {
		return nil, err
	}

	indegree := make([]int, len(g.passes))
	next := make([][]int, len(g.passes))
	for i, p := range g.passes {
		for _, a := range p.Reads {
			j, ok := w[a]
			if !ok {
				if g.imports[a] {
					continue
				}
				return nil, fmt.Errorf("%w: %q read by %q", ErrUnknownAttachment, a, p.Name)
			}
			next[j] = append(next[j], i)
			indegree[i]++
		}
	}

	order := make([]Pass, 0, len(g.passes))
	done := make([]bool, len(g.passes))
	for len(order) < len(g.passes) {
		progressed := false
		for i := range g.passes {
			if done[i] || indegree[i] > 0 {
				continue
			}
			done[i] = true
			progressed = true
			order = append(order, g.passes[i])
			for _, k := range next[i] {
				indegree[k]--
			}
			break
		}
		if !progressed {
			var stuck []string
			for i, p := range g.passes {
				if !done[i] {
					stuck = append(stuck, p.Name)
				}
			}
			return nil, fmt.Errorf("%w: %v", ErrPassCycle, stuck)
		}
	}
	return order, nil
}

// pyramidLevelName names mip level l of the pyramid attachment.
func pyramidLevelName(l int) string {
	return fmt.Sprintf("pyramid/%d", l)
}

// PyramidGraph declares the passes of the blur-pyramid compositor with the
// given number of blurred levels.
func PyramidGraph(levels int) *PassGraph {
	g := NewPassGraph()
	g.Import("atlas", "target")
	g.Add(Pass{Name: "base", Reads: []string{"atlas"}, Writes: []string{pyramidLevelName(0), "info"}})
	for l := 1; l <= levels; l++ {
		g.Add(Pass{
			Name:   fmt.Sprintf("down/%d", l),
			Reads:  []string{pyramidLevelName(l - 1)},
			Writes: []string{pyramidLevelName(l)},
		})
	}
	reads := []string{"info"}
	for l := 0; l <= levels; l++ {
		reads = append(reads, pyramidLevelName(l))
	}
	g.Add(Pass{Name: "composite", Reads: reads, Writes: []string{"target"}})
	return g
}
