package Geometry

// SmoothInterior 仅平滑内部顶点的拉普拉斯平滑，边界顶点保持不动
// factor为向邻居均值移动的比例
func SmoothInterior(m *IndexedMesh, iterations int, factor float64) {
	boundary := m.BoundaryMask()
	neighbors := m.NeighborTable()

	for it := 0; it < iterations; it++ {
		newPositions := make(map[int]Vec3)
		for v := range m.Vertices {
			if boundary[v] || len(neighbors[v]) == 0 {
				continue
			}
			avg := Vec3{}
			for _, nb := range neighbors[v] {
				avg = avg.Add(m.Vertices[nb])
			}
			avg = avg.Scale(1.0 / float64(len(neighbors[v])))
			newPositions[v] = m.Vertices[v].Lerp(avg, factor)
		}
		for v, p := range newPositions {
			m.Vertices[v] = p
		}
	}
}
