package Geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quadMesh() *IndexedMesh {
	return &IndexedMesh{
		Vertices: []Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		Faces:    [][]int{{0, 1, 2, 3}},
	}
}

func TestBoundaryEdgesSingleQuad(t *testing.T) {
	m := quadMesh()
	edges := m.BoundaryEdges()
	assert.Len(t, edges, 4)
}

func TestBoundaryEdgesSharedEdge(t *testing.T) {
	// 两个三角形共享一条边，共享边不是边界
	m := &IndexedMesh{
		Vertices: []Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		Faces:    [][]int{{0, 1, 2}, {0, 2, 3}},
	}
	edges := m.BoundaryEdges()
	assert.Len(t, edges, 4)
	for _, e := range edges {
		assert.False(t, e[0] == 0 && e[1] == 2, "共享对角线不应是边界边")
	}
}

func TestExtractBoundaryCyclic(t *testing.T) {
	m := quadMesh()
	loops, err := ExtractBoundary(m)
	require.NoError(t, err)
	require.Len(t, loops, 1)
	assert.True(t, loops[0].Cyclic)
	assert.ElementsMatch(t, []int{0, 1, 2, 3}, loops[0].Indices)
	// 起点取最小顶点号，结果可复现
	assert.Equal(t, 0, loops[0].Indices[0])
}

func TestExtractBoundaryOpenChain(t *testing.T) {
	// 仅有边没有面的开放链
	m := &IndexedMesh{
		Vertices: []Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}},
		Edges:    [][2]int{{0, 1}, {1, 2}},
	}
	loops, err := ExtractBoundary(m)
	require.NoError(t, err)
	require.Len(t, loops, 1)
	assert.False(t, loops[0].Cyclic)
	assert.Len(t, loops[0].Indices, 3)
	// 开放链从端点起步
	first := loops[0].Indices[0]
	assert.True(t, first == 0 || first == 2)
}

// 蝴蝶结网格：两个三角形只共享顶点0。边界度>2的顶点不会被修复，
// 行走把它归入先到达的环，剩余部分成为开放链。
func TestExtractBoundaryNonManifoldVertex(t *testing.T) {
	m := &IndexedMesh{
		Vertices: []Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {-1, 0, 0}, {-1, -1, 0}},
		Faces:    [][]int{{0, 1, 2}, {0, 3, 4}},
	}
	loops, err := ExtractBoundary(m)
	require.NoError(t, err)
	require.Len(t, loops, 2)

	total := 0
	sizes := []int{}
	for _, loop := range loops {
		total += len(loop.Indices)
		sizes = append(sizes, len(loop.Indices))
	}
	assert.Equal(t, 5, total)
	assert.ElementsMatch(t, []int{3, 2}, sizes)
}

func TestExtractBoundaryNoBoundary(t *testing.T) {
	// 封闭四面体没有边界边
	m := &IndexedMesh{
		Vertices: []Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		Faces:    [][]int{{0, 1, 2}, {0, 1, 3}, {1, 2, 3}, {0, 2, 3}},
	}
	_, err := ExtractBoundary(m)
	assert.Error(t, err)
}

func TestBoundaryPolylines(t *testing.T) {
	m := quadMesh()
	lines, err := BoundaryPolylines(m)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, lines[0].Cyclic)
	assert.Len(t, lines[0].Points, 4)
}
