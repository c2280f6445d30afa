package Geometry

import "fmt"

// Resample 将有序点列重采样为n个等弧长间距的点
// 间距按 total/n 计算，默认按闭合轮廓处理：末尾采样点不会落在原始终点上，
// 由调用方闭合成环（鞋面板轮廓全部是闭合环，这里刻意保留该语义）
func Resample(points []Vec3, n int) ([]Vec3, error) {
	if n < 2 {
		return nil, fmt.Errorf("重采样数量必须>=2，当前为%d", n)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("输入点列为空")
	}

	// 累计弧长
	lengths := make([]float64, 1, len(points))
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += points[i].Distance(points[i-1])
		lengths = append(lengths, total)
	}

	// 所有点重合时返回n个首点副本（退化但有定义）
	if total < 1e-6 {
		out := make([]Vec3, n)
		for i := range out {
			out[i] = points[0]
		}
		return out, nil
	}

	spacing := total / float64(n)
	out := make([]Vec3, 0, n)
	segIndex := 0
	for i := 0; i < n; i++ {
		d := float64(i) * spacing
		// 单调推进定位所在线段，点数少时线性扫描足够
		for segIndex < len(lengths)-2 && d > lengths[segIndex+1] {
			segIndex++
		}
		segStart := lengths[segIndex]
		segEnd := lengths[segIndex+1]
		segLen := segEnd - segStart
		t := 0.0
		if segLen > 1e-6 {
			t = (d - segStart) / segLen
		}
		out = append(out, points[segIndex].Lerp(points[segIndex+1], t))
	}
	return out, nil
}

// ResamplePolyline 重采样并保留闭合标记
func ResamplePolyline(line Polyline, n int) (Polyline, error) {
	pts, err := Resample(line.Points, n)
	if err != nil {
		return Polyline{}, err
	}
	return Polyline{Points: pts, Cyclic: line.Cyclic}, nil
}

// OutlineMesh 将闭合/开放点列转为仅含边的网格，供填充使用
func OutlineMesh(line Polyline) *IndexedMesh {
	mesh := &IndexedMesh{Vertices: make([]Vec3, len(line.Points))}
	copy(mesh.Vertices, line.Points)
	for i := 0; i < len(line.Points)-1; i++ {
		mesh.Edges = append(mesh.Edges, [2]int{i, i + 1})
	}
	if line.Cyclic && len(line.Points) > 2 {
		mesh.Edges = append(mesh.Edges, [2]int{len(line.Points) - 1, 0})
	}
	return mesh
}

// MirrorPolyline 沿指定轴镜像点列（axis: 0=X 1=Y 2=Z），center为镜像面位置
func MirrorPolyline(line Polyline, axis int, center float64) (Polyline, error) {
	if axis < 0 || axis > 2 {
		return Polyline{}, fmt.Errorf("非法镜像轴: %d", axis)
	}
	out := Polyline{Points: make([]Vec3, len(line.Points)), Cyclic: line.Cyclic}
	for i, p := range line.Points {
		switch axis {
		case 0:
			p.X = 2*center - p.X
		case 1:
			p.Y = 2*center - p.Y
		case 2:
			p.Z = 2*center - p.Z
		}
		out.Points[i] = p
	}
	// 镜像后翻转方向，保持环绕方向一致
	for i, j := 0, len(out.Points)-1; i < j; i, j = i+1, j-1 {
		out.Points[i], out.Points[j] = out.Points[j], out.Points[i]
	}
	return out, nil
}
