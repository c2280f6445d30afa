package Geometry

import "math"

// Vec3 表示一个三维点或向量
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Vec2 表示一个二维点（UV坐标）
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func (a Vec3) Scale(s float64) Vec3 {
	return Vec3{a.X * s, a.Y * s, a.Z * s}
}

func (a Vec3) Dot(b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross 叉积
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

func (a Vec3) Length() float64 {
	return math.Sqrt(a.X*a.X + a.Y*a.Y + a.Z*a.Z)
}

func (a Vec3) LengthSquared() float64 {
	return a.X*a.X + a.Y*a.Y + a.Z*a.Z
}

func (a Vec3) Distance(b Vec3) float64 {
	return a.Sub(b).Length()
}

// Normalize 归一化，零向量原样返回
func (a Vec3) Normalize() Vec3 {
	l := a.Length()
	if l == 0 {
		return a
	}
	return Vec3{a.X / l, a.Y / l, a.Z / l}
}

// Lerp 线性插值
func (a Vec3) Lerp(b Vec3, t float64) Vec3 {
	return Vec3{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
	}
}

func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

func (a Vec2) Scale(s float64) Vec2 {
	return Vec2{a.X * s, a.Y * s}
}

func (a Vec2) Dot(b Vec2) float64 {
	return a.X*b.X + a.Y*b.Y
}

func (a Vec2) Length() float64 {
	return math.Sqrt(a.X*a.X + a.Y*a.Y)
}

func (a Vec2) Distance(b Vec2) float64 {
	return a.Sub(b).Length()
}

// Normalize 归一化，零向量原样返回
func (a Vec2) Normalize() Vec2 {
	l := a.Length()
	if l == 0 {
		return a
	}
	return Vec2{a.X / l, a.Y / l}
}

// Polyline 有序点列，Cyclic表示首尾闭合
type Polyline struct {
	Points []Vec3 `json:"points"`
	Cyclic bool   `json:"cyclic"`
}

// IndexedMesh 显式索引网格：顶点、无序边、有序面
// 面为3或4个顶点索引，边用于仅有轮廓没有面的网格
type IndexedMesh struct {
	Vertices []Vec3   `json:"vertices"`
	Edges    [][2]int `json:"edges"`
	Faces    [][]int  `json:"faces"`
}

// Clone 深拷贝网格
func (m *IndexedMesh) Clone() *IndexedMesh {
	out := &IndexedMesh{
		Vertices: make([]Vec3, len(m.Vertices)),
		Edges:    make([][2]int, len(m.Edges)),
		Faces:    make([][]int, len(m.Faces)),
	}
	copy(out.Vertices, m.Vertices)
	copy(out.Edges, m.Edges)
	for i, f := range m.Faces {
		face := make([]int, len(f))
		copy(face, f)
		out.Faces[i] = face
	}
	return out
}

// AllEdges 合并显式边与面的边，去重后返回
func (m *IndexedMesh) AllEdges() [][2]int {
	seen := make(map[[2]int]bool)
	var edges [][2]int
	push := func(a, b int) {
		if a > b {
			a, b = b, a
		}
		key := [2]int{a, b}
		if !seen[key] {
			seen[key] = true
			edges = append(edges, key)
		}
	}
	for _, e := range m.Edges {
		push(e[0], e[1])
	}
	for _, f := range m.Faces {
		for i := range f {
			push(f[i], f[(i+1)%len(f)])
		}
	}
	return edges
}

// NeighborTable 顶点邻接表
func (m *IndexedMesh) NeighborTable() [][]int {
	neighbors := make([][]int, len(m.Vertices))
	for _, e := range m.AllEdges() {
		neighbors[e[0]] = append(neighbors[e[0]], e[1])
		neighbors[e[1]] = append(neighbors[e[1]], e[0])
	}
	return neighbors
}

// Triangle 网格中的一个三角形（顶点坐标）
type Triangle struct {
	A, B, C Vec3
}

// Normal 三角形单位法向量
func (t Triangle) Normal() Vec3 {
	n := t.B.Sub(t.A).Cross(t.C.Sub(t.A))
	return n.Normalize()
}

// Area 三角形面积
func (t Triangle) Area() float64 {
	return t.B.Sub(t.A).Cross(t.C.Sub(t.A)).Length() / 2.0
}

// Triangulate 将面拆为三角形索引组：三角面保持原样，
// 四边面按固定对角线(0,1,2)+(0,2,3)拆分，其余面扇形拆分
func (m *IndexedMesh) Triangulate() [][3]int {
	var tris [][3]int
	for _, f := range m.Faces {
		switch len(f) {
		case 3:
			tris = append(tris, [3]int{f[0], f[1], f[2]})
		case 4:
			tris = append(tris, [3]int{f[0], f[1], f[2]})
			tris = append(tris, [3]int{f[0], f[2], f[3]})
		default:
			for i := 1; i < len(f)-1; i++ {
				tris = append(tris, [3]int{f[0], f[i], f[i+1]})
			}
		}
	}
	return tris
}

// FaceArea 网格表面积
func (m *IndexedMesh) FaceArea() float64 {
	var total float64
	for _, t := range m.Triangulate() {
		total += Triangle{m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]}.Area()
	}
	return total
}
