package UVMapper

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/GrainArc/PanelForge/Geometry"
)

// UVMeshMeta UV展开网格的元数据，换算回原始UV依赖它
type UVMeshMeta struct {
	SourceName  string  `json:"source_name"`
	UVMapName   string  `json:"uv_map_name"`
	ScaleFactor float64 `json:"scale_factor"`
}

// UVMeshResult 展开结果：平面网格加元数据
type UVMeshResult struct {
	Mesh *Geometry.IndexedMesh
	Meta UVMeshMeta
}

// weldKey UV坐标按6位小数归并，消除逐角UV的浮点毛刺
func weldKey(uv Geometry.Vec2) [2]float64 {
	return [2]float64{
		math.Round(uv.X*1e6) / 1e6,
		math.Round(uv.Y*1e6) / 1e6,
	}
}

// BuildUVMesh 把壳体的UV层展开成Z=0的平面网格
// autoScale开启时按 sqrt(3D面积/UV面积) 统一放缩，
// 使展开后的面板尺寸与鞋楦表面真实尺寸一致
func BuildUVMesh(shell *ShellMesh, sourceName string, autoScale bool) (*UVMeshResult, error) {
	if err := shell.Validate(); err != nil {
		return nil, err
	}

	mesh := &Geometry.IndexedMesh{}
	index := make(map[[2]float64]int)
	var uvAreaTotal float64

	for fi, f := range shell.Mesh.Faces {
		uvs := shell.UV[fi]
		face := make([]int, len(f))
		ring := make(orb.Ring, 0, len(f)+1)
		for ci, uv := range uvs {
			key := weldKey(uv)
			vi, ok := index[key]
			if !ok {
				vi = len(mesh.Vertices)
				index[key] = vi
				mesh.Vertices = append(mesh.Vertices, Geometry.Vec3{X: key[0], Y: key[1], Z: 0})
			}
			face[ci] = vi
			ring = append(ring, orb.Point{key[0], key[1]})
		}
		ring = append(ring, ring[0])
		uvAreaTotal += math.Abs(planar.Area(ring))
		mesh.Faces = append(mesh.Faces, face)
	}

	if len(mesh.Faces) == 0 {
		return nil, fmt.Errorf("UV层没有生成任何面")
	}

	scale := 1.0
	if autoScale {
		area3D := shell.Mesh.FaceArea()
		if uvAreaTotal < 1e-12 {
			return nil, fmt.Errorf("UV面积接近0，无法计算放缩比例")
		}
		scale = math.Sqrt(area3D / uvAreaTotal)
		for i := range mesh.Vertices {
			mesh.Vertices[i] = mesh.Vertices[i].Scale(scale)
		}
	}

	return &UVMeshResult{
		Mesh: mesh,
		Meta: UVMeshMeta{
			SourceName:  sourceName,
			UVMapName:   shell.UVMapName,
			ScaleFactor: scale,
		},
	}, nil
}
