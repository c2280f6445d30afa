package Geometry

import (
	"fmt"
	"sort"
)

// BoundaryEdges 返回边界边集合：被少于2个面引用的边
// 没有面时把所有显式边视为边界（纯轮廓网格）
func (m *IndexedMesh) BoundaryEdges() [][2]int {
	if len(m.Faces) == 0 {
		return m.AllEdges()
	}
	count := make(map[[2]int]int)
	for _, f := range m.Faces {
		for i := range f {
			a, b := f[i], f[(i+1)%len(f)]
			if a > b {
				a, b = b, a
			}
			count[[2]int{a, b}]++
		}
	}
	// 仅有边没有面引用的边同样算边界
	for _, e := range m.Edges {
		a, b := e[0], e[1]
		if a > b {
			a, b = b, a
		}
		if _, ok := count[[2]int{a, b}]; !ok {
			count[[2]int{a, b}] = 0
		}
	}
	var edges [][2]int
	for key, c := range count {
		if c < 2 {
			edges = append(edges, key)
		}
	}
	return edges
}

// BoundaryMask 每个顶点是否在边界上
func (m *IndexedMesh) BoundaryMask() []bool {
	mask := make([]bool, len(m.Vertices))
	for _, e := range m.BoundaryEdges() {
		mask[e[0]] = true
		mask[e[1]] = true
	}
	return mask
}

// BoundaryLoop 一条有序边界链，Cyclic表示闭合环
type BoundaryLoop struct {
	Indices []int
	Cyclic  bool
}

// ExtractBoundary 沿边界边行走，恢复有序顶点环/链
// 每个连通分量返回一条链，优先从开放链端点（边界度为1的顶点）起步
// 边界度>2的非流形顶点不保证走到"正确"的分支，由测试明确钉死该行为
func ExtractBoundary(m *IndexedMesh) ([]BoundaryLoop, error) {
	boundary := m.BoundaryEdges()
	if len(boundary) == 0 {
		return nil, fmt.Errorf("网格没有边界边")
	}

	adjacency := make(map[int][]int)
	for _, e := range boundary {
		adjacency[e[0]] = append(adjacency[e[0]], e[1])
		adjacency[e[1]] = append(adjacency[e[1]], e[0])
	}

	// 固定遍历顺序，保证结果确定
	var order []int
	for v := range adjacency {
		order = append(order, v)
	}
	sort.Ints(order)

	visited := make(map[int]bool)
	var loops []BoundaryLoop

	for len(visited) < len(adjacency) {
		// 优先选未访问的端点作为起点
		start := -1
		for _, v := range order {
			if !visited[v] && len(adjacency[v]) == 1 {
				start = v
				break
			}
		}
		if start == -1 {
			for _, v := range order {
				if !visited[v] {
					start = v
					break
				}
			}
		}
		if start == -1 {
			break
		}

		var chain []int
		current := start
		for current != -1 && !visited[current] {
			visited[current] = true
			chain = append(chain, current)
			next := -1
			for _, nb := range adjacency[current] {
				if !visited[nb] {
					next = nb
					break
				}
			}
			current = next
		}

		cyclic := false
		if len(chain) > 2 {
			for _, nb := range adjacency[chain[len(chain)-1]] {
				if nb == chain[0] {
					cyclic = true
					break
				}
			}
		}
		loops = append(loops, BoundaryLoop{Indices: chain, Cyclic: cyclic})
	}
	return loops, nil
}

// BoundaryPolylines 边界链转坐标点列
func BoundaryPolylines(m *IndexedMesh) ([]Polyline, error) {
	loops, err := ExtractBoundary(m)
	if err != nil {
		return nil, err
	}
	out := make([]Polyline, len(loops))
	for i, loop := range loops {
		pts := make([]Vec3, len(loop.Indices))
		for j, idx := range loop.Indices {
			pts[j] = m.Vertices[idx]
		}
		out[i] = Polyline{Points: pts, Cyclic: loop.Cyclic}
	}
	return out, nil
}
