// internal/service/network/centrality.go

package network

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
	"gonum.org/v1/gonum/mat"

	"chanalytics/internal/domain/analytics"
	"chanalytics/internal/logging"
	"chanalytics/internal/metrics"
)

// AnalyzerConfig contains configuration for centrality analysis
type AnalyzerConfig struct {
	EigenvectorMaxIter   int
	EigenvectorTolerance float64
}

// DefaultAnalyzerConfig returns the default analyzer configuration
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		EigenvectorMaxIter:   2000,
		EigenvectorTolerance: 1e-6,
	}
}

// Analyzer computes centrality profiles of similarity graphs
type Analyzer struct {
	config AnalyzerConfig
}

// NewAnalyzer creates a new centrality analyzer
func NewAnalyzer(config AnalyzerConfig) *Analyzer {
	if config.EigenvectorMaxIter <= 0 {
		config.EigenvectorMaxIter = DefaultAnalyzerConfig().EigenvectorMaxIter
	}
	if config.EigenvectorTolerance <= 0 {
		config.EigenvectorTolerance = DefaultAnalyzerConfig().EigenvectorTolerance
	}

	return &Analyzer{
		config: config,
	}
}

// indexedGraph is a gonum graph whose node IDs index into names
type indexedGraph struct {
	g     *simple.WeightedUndirectedGraph
	names []string
}

func newIndexedGraph(sg *analytics.SimilarityGraph) *indexedGraph {
	ig := &indexedGraph{
		g: simple.NewWeightedUndirectedGraph(0, math.Inf(1)),
	}

	ids := make(map[string]int64, len(sg.Nodes))
	nodeFor := func(name string) graph.Node {
		id, ok := ids[name]
		if !ok {
			id = int64(len(ig.names))
			ids[name] = id
			ig.names = append(ig.names, name)
			ig.g.AddNode(simple.Node(id))
		}
		return simple.Node(id)
	}

	for _, name := range sg.Nodes {
		nodeFor(name)
	}
	for _, e := range sg.Edges {
		if e.From == e.To {
			continue
		}
		from, to := nodeFor(e.From), nodeFor(e.To)
		ig.g.SetWeightedEdge(ig.g.NewWeightedEdge(from, to, e.Weight))
	}

	return ig
}

func (ig *indexedGraph) zeros() map[string]float64 {
	out := make(map[string]float64, len(ig.names))
	for _, name := range ig.names {
		out[name] = 0
	}
	return out
}

// Analyze computes degree, betweenness, closeness and eigenvector centrality.
// A measure that fails is reported as an empty map; a nil or empty graph
// yields a nil profile.
func (a *Analyzer) Analyze(sg *analytics.SimilarityGraph) *analytics.CentralityProfile {
	if sg == nil || len(sg.Nodes) == 0 {
		return nil
	}

	ig := newIndexedGraph(sg)

	return &analytics.CentralityProfile{
		Degree:      measure("degree", func() (map[string]float64, error) { return degreeCentrality(ig), nil }),
		Betweenness: measure("betweenness", func() (map[string]float64, error) { return betweennessCentrality(ig), nil }),
		Closeness:   measure("closeness", func() (map[string]float64, error) { return closenessCentrality(ig), nil }),
		Eigenvector: measure("eigenvector", func() (map[string]float64, error) { return a.eigenvectorCentrality(ig) }),
	}
}

// measure runs fn, turning an error or panic into an empty result
func measure(name string, fn func() (map[string]float64, error)) (result map[string]float64) {
	defer func() {
		if r := recover(); r != nil {
			logging.Warn().Str("measure", name).Interface("panic", r).Msg("Centrality measure panicked")
			metrics.CentralityDegraded.WithLabelValues(name).Inc()
			result = map[string]float64{}
		}
	}()

	result, err := fn()
	if err != nil {
		logging.Warn().Err(err).Str("measure", name).Msg("Centrality measure degraded")
		metrics.CentralityDegraded.WithLabelValues(name).Inc()
		return map[string]float64{}
	}

	return result
}

// degreeCentrality is the neighbor count divided by n-1
func degreeCentrality(ig *indexedGraph) map[string]float64 {
	n := len(ig.names)
	out := make(map[string]float64, n)
	if n == 1 {
		out[ig.names[0]] = 1
		return out
	}

	for id, name := range ig.names {
		out[name] = float64(ig.g.From(int64(id)).Len()) / float64(n-1)
	}
	return out
}

// betweennessCentrality uses edge weights as distances and normalizes by
// (n-1)(n-2) over ordered node pairs.
func betweennessCentrality(ig *indexedGraph) map[string]float64 {
	out := ig.zeros()
	n := len(ig.names)
	if n <= 2 {
		return out
	}

	raw := network.BetweennessWeighted(ig.g, path.DijkstraAllPaths(ig.g))
	scale := 1 / float64((n-1)*(n-2))
	for id, v := range raw {
		out[ig.names[id]] = v * scale
	}
	return out
}

// closenessCentrality uses hop distances with the Wasserman and Faust
// correction for graphs that are not connected.
func closenessCentrality(ig *indexedGraph) map[string]float64 {
	out := ig.zeros()
	n := len(ig.names)
	if n <= 1 {
		return out
	}

	for id, name := range ig.names {
		var total, reached int
		var bf traverse.BreadthFirst
		bf.Walk(ig.g, simple.Node(id), func(_ graph.Node, depth int) bool {
			total += depth
			reached++
			return false
		})

		if total == 0 {
			continue
		}
		r := float64(reached - 1)
		out[name] = (r / float64(total)) * (r / float64(n-1))
	}
	return out
}

// eigenvectorCentrality runs weighted power iteration on A+I starting from
// the uniform vector. It fails with ErrNoConvergence once the iteration cap
// is hit.
func (a *Analyzer) eigenvectorCentrality(ig *indexedGraph) (map[string]float64, error) {
	n := len(ig.names)

	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	edges := ig.g.WeightedEdges()
	for edges.Next() {
		e := edges.WeightedEdge()
		i, j := int(e.From().ID()), int(e.To().ID())
		m.Set(i, j, e.Weight())
		m.Set(j, i, e.Weight())
	}

	x := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		x.SetVec(i, 1/float64(n))
	}

	tolerance := float64(n) * a.config.EigenvectorTolerance
	for iter := 0; iter < a.config.EigenvectorMaxIter; iter++ {
		next := mat.NewVecDense(n, nil)
		next.MulVec(m, x)

		norm := mat.Norm(next, 2)
		if norm == 0 {
			norm = 1
		}
		next.ScaleVec(1/norm, next)

		var diff float64
		for i := 0; i < n; i++ {
			diff += math.Abs(next.AtVec(i) - x.AtVec(i))
		}
		x = next

		if diff < tolerance {
			out := make(map[string]float64, n)
			for id, name := range ig.names {
				out[name] = x.AtVec(id)
			}
			return out, nil
		}
	}

	return nil, fmt.Errorf("eigenvector after %d iterations: %w", a.config.EigenvectorMaxIter, analytics.ErrNoConvergence)
}
