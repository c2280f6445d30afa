package Transformer

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/GrainArc/PanelForge/Geometry"
	"github.com/GrainArc/PanelForge/UVMapper"
)

// ParseObj 解析OBJ文本为带UV层的网格
// 支持 v / vt / f 记录，面角标支持 v、v/vt、v/vt/vn、v//vn 四种写法
// 没有vt的角UV记为(0,0)
func ParseObj(r io.Reader) (*UVMapper.ShellMesh, error) {
	mesh := &Geometry.IndexedMesh{}
	var uvPool []Geometry.Vec2
	var faceUVs [][]Geometry.Vec2

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("第%d行顶点记录不完整", lineNo)
			}
			x, err1 := strconv.ParseFloat(fields[1], 64)
			y, err2 := strconv.ParseFloat(fields[2], 64)
			z, err3 := strconv.ParseFloat(fields[3], 64)
			if err1 != nil || err2 != nil || err3 != nil {
				return nil, fmt.Errorf("第%d行顶点坐标解析失败", lineNo)
			}
			mesh.Vertices = append(mesh.Vertices, Geometry.Vec3{X: x, Y: y, Z: z})
		case "vt":
			if len(fields) < 3 {
				return nil, fmt.Errorf("第%d行UV记录不完整", lineNo)
			}
			u, err1 := strconv.ParseFloat(fields[1], 64)
			v, err2 := strconv.ParseFloat(fields[2], 64)
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("第%d行UV坐标解析失败", lineNo)
			}
			uvPool = append(uvPool, Geometry.Vec2{X: u, Y: v})
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("第%d行面记录少于3个角", lineNo)
			}
			face := make([]int, 0, len(fields)-1)
			uvs := make([]Geometry.Vec2, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				vi, ti, err := parseObjCorner(tok)
				if err != nil {
					return nil, fmt.Errorf("第%d行面角标解析失败: %v", lineNo, err)
				}
				vi = resolveObjIndex(vi, len(mesh.Vertices))
				if vi < 0 || vi >= len(mesh.Vertices) {
					return nil, fmt.Errorf("第%d行顶点下标越界", lineNo)
				}
				face = append(face, vi)
				if ti != 0 {
					ti = resolveObjIndex(ti, len(uvPool))
					if ti < 0 || ti >= len(uvPool) {
						return nil, fmt.Errorf("第%d行UV下标越界", lineNo)
					}
					uvs = append(uvs, uvPool[ti])
				} else {
					uvs = append(uvs, Geometry.Vec2{})
				}
			}
			mesh.Faces = append(mesh.Faces, face)
			faceUVs = append(faceUVs, uvs)
		case "l":
			for i := 1; i < len(fields)-1; i++ {
				a, err1 := strconv.Atoi(fields[i])
				b, err2 := strconv.Atoi(fields[i+1])
				if err1 != nil || err2 != nil {
					return nil, fmt.Errorf("第%d行线段记录解析失败", lineNo)
				}
				mesh.Edges = append(mesh.Edges, [2]int{
					resolveObjIndex(a, len(mesh.Vertices)),
					resolveObjIndex(b, len(mesh.Vertices)),
				})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("读取OBJ失败: %v", err)
	}
	if len(mesh.Vertices) == 0 {
		return nil, fmt.Errorf("OBJ中没有顶点")
	}
	return &UVMapper.ShellMesh{Mesh: mesh, UV: faceUVs, UVMapName: "UVMap"}, nil
}

// parseObjCorner 拆解一个面角标，返回1基的顶点与UV下标（UV缺省为0）
func parseObjCorner(tok string) (int, int, error) {
	parts := strings.Split(tok, "/")
	vi, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, err
	}
	ti := 0
	if len(parts) > 1 && parts[1] != "" {
		ti, err = strconv.Atoi(parts[1])
		if err != nil {
			return 0, 0, err
		}
	}
	return vi, ti, nil
}

// resolveObjIndex OBJ下标转0基，负数表示从尾部倒数
func resolveObjIndex(idx, count int) int {
	if idx < 0 {
		return count + idx
	}
	return idx - 1
}

// WriteObj 把网格写成OBJ文本，uv为逐面逐角UV层，可以为nil
func WriteObj(w io.Writer, mesh *Geometry.IndexedMesh, uv [][]Geometry.Vec2, name string) error {
	bw := bufio.NewWriter(w)
	if name != "" {
		fmt.Fprintf(bw, "o %s\n", name)
	}
	for _, v := range mesh.Vertices {
		fmt.Fprintf(bw, "v %.6f %.6f %.6f\n", v.X, v.Y, v.Z)
	}

	// UV按出现顺序去重后写出，再按下标引用
	uvIndex := make(map[[2]float64]int)
	writeUV := uv != nil && len(uv) == len(mesh.Faces)
	if writeUV {
		for _, corners := range uv {
			for _, c := range corners {
				key := [2]float64{c.X, c.Y}
				if _, ok := uvIndex[key]; !ok {
					uvIndex[key] = len(uvIndex) + 1
					fmt.Fprintf(bw, "vt %.6f %.6f\n", c.X, c.Y)
				}
			}
		}
	}

	for fi, f := range mesh.Faces {
		bw.WriteString("f")
		for ci, vi := range f {
			if writeUV {
				key := [2]float64{uv[fi][ci].X, uv[fi][ci].Y}
				fmt.Fprintf(bw, " %d/%d", vi+1, uvIndex[key])
			} else {
				fmt.Fprintf(bw, " %d", vi+1)
			}
		}
		bw.WriteString("\n")
	}
	for _, e := range mesh.Edges {
		fmt.Fprintf(bw, "l %d %d\n", e[0]+1, e[1]+1)
	}
	return bw.Flush()
}
