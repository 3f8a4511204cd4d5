package wordgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddEdgeTracksTotalsAndConnections(t *testing.T) {
	g := New()
	g.AddEdge('的', '一')
	g.AddEdge('的', '一')
	g.AddEdge('的', '是')

	assert.Equal(t, 2, g.Nodes['的'].Edges['一'])
	assert.Equal(t, 1, g.Nodes['的'].Edges['是'])
	assert.Equal(t, 3, g.Nodes['的'].Total)
	assert.Equal(t, 3, g.Connections)

	// '一' and '是' are present as nodes (context only), with no outgoing
	// edges yet.
	assert.Contains(t, g.Nodes, '一')
	assert.Contains(t, g.Nodes, '是')
	assert.Equal(t, 0, g.Nodes['一'].Total)
}

func TestTotalsInvariantHoldsAcrossGraph(t *testing.T) {
	g := New()
	pairs := [][2]rune{{'人', '有'}, {'有', '人'}, {'人', '人'}, {'人', '有'}}
	for _, p := range pairs {
		g.AddEdge(p[0], p[1])
	}

	sum := 0
	for _, n := range g.Nodes {
		total := 0
		for _, c := range n.Edges {
			total += c
		}
		assert.Equal(t, n.Total, total)
		sum += n.Total
	}
	assert.Equal(t, g.Connections, sum)
}

func TestWeightOfFallback(t *testing.T) {
	g := New()
	g.AddEdge('的', '一')

	assert.Equal(t, 1, g.WeightOf('的', '一', 7))
	assert.Equal(t, 7, g.WeightOf('的', '是', 7))
	assert.Equal(t, 7, g.WeightOf('不', '是', 7))
}
