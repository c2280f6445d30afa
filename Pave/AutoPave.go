package Pave

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/GrainArc/PanelForge/Geometry"
)

// ErrTimeout 贴合计算超过墙钟时限，与普通失败区分开
var ErrTimeout = errors.New("自动铺贴计算超时")

// PaveConfig 自动铺贴参数记录，调用方整体传入
type PaveConfig struct {
	Iterations    int     `json:"iterations"`
	RelaxFactor   float64 `json:"relax_factor"`
	SnapFraction  float64 `json:"snap_fraction"`
	MoveThreshold float64 `json:"move_threshold"`
	FinalOffset   float64 `json:"final_offset"`
	BoundarySlide bool    `json:"boundary_slide"`
	UseCurvature  bool    `json:"use_curvature"`
	CurvSamples   int     `json:"curv_samples"`
	CurvRadius    float64 `json:"curv_radius"`
	TimeoutSec    float64 `json:"timeout_sec"`
}

// DefaultPaveConfig 经验默认值
func DefaultPaveConfig() PaveConfig {
	return PaveConfig{
		Iterations:    20,
		RelaxFactor:   0.4,
		SnapFraction:  0.7,
		MoveThreshold: 1e-5,
		FinalOffset:   0.0005,
		BoundarySlide: true,
		UseCurvature:  false,
		CurvSamples:   14,
		CurvRadius:    0.005,
		TimeoutSec:    30,
	}
}

// Validate 参数合法性检查
func (c *PaveConfig) Validate() error {
	if c.Iterations < 1 {
		return fmt.Errorf("迭代次数必须>=1，当前为%d", c.Iterations)
	}
	if c.RelaxFactor <= 0 || c.RelaxFactor > 1 {
		return fmt.Errorf("松弛系数必须在(0,1]区间，当前为%g", c.RelaxFactor)
	}
	if c.SnapFraction < 0 || c.SnapFraction > 1 {
		return fmt.Errorf("贴附比例必须在[0,1]区间，当前为%g", c.SnapFraction)
	}
	if c.UseCurvature && (c.CurvSamples < 3 || c.CurvRadius <= 0) {
		return fmt.Errorf("曲率采样参数非法: samples=%d radius=%g", c.CurvSamples, c.CurvRadius)
	}
	return nil
}

// PaveResult 铺贴结果统计
type PaveResult struct {
	Iterations   int     `json:"iterations"`
	Converged    bool    `json:"converged"`
	MeanMove     float64 `json:"mean_move"`
	MissCount    int     `json:"miss_count"`
	ElapsedMilli int64   `json:"elapsed_milli"`
}

// 每隔几轮刷新一次最近点缓存
const hitRefreshStride = 2

// 铺贴前边界预平滑轮数与系数
const (
	preSmoothPasses = 5
	preSmoothFactor = 0.5
)

type vertexHit struct {
	point  Geometry.Vec3
	normal Geometry.Vec3
	curvU  Geometry.Vec3
	ok     bool
}

// AutoPave 把面板网格松弛贴合到鞋楦表面
// 迭代过程：邻居均值松弛 -> 切平面投影 -> 沿法向部分贴附最近表面点，
// 贴附只收法向距离，切向位置完全由松弛决定；
// 平均位移低于阈值时提前收敛，超过时限返回ErrTimeout
// 网格顶点就地修改；失败时由调用方负责回滚
func AutoPave(m *Geometry.IndexedMesh, surf Surface, cfg PaveConfig) (*PaveResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(m.Vertices) == 0 {
		return nil, fmt.Errorf("面板网格为空")
	}

	start := time.Now()
	deadline := start.Add(time.Duration(cfg.TimeoutSec * float64(time.Second)))

	boundary := m.BoundaryMask()
	neighbors := m.NeighborTable()
	boundaryNbrs := boundaryNeighborTable(m)

	// 边界预平滑，消除采样噪声引起的锯齿
	if cfg.BoundarySlide {
		preSmoothBoundary(m, boundaryNbrs)
	}

	hits := make([]vertexHit, len(m.Vertices))
	result := &PaveResult{}

	refresh := func() {
		for v := range m.Vertices {
			pt, n, ok := surf.NearestSurface(m.Vertices[v])
			hits[v] = vertexHit{point: pt, normal: n, ok: ok}
			if !ok {
				continue
			}
			if cfg.UseCurvature {
				hits[v].curvU, _ = CurvatureFrame(surf, pt, n, cfg.CurvSamples, cfg.CurvRadius)
			}
		}
	}
	refresh()

	for it := 0; it < cfg.Iterations; it++ {
		if time.Now().After(deadline) {
			log.Printf("自动铺贴在第%d轮超时", it)
			return nil, ErrTimeout
		}
		if it > 0 && it%hitRefreshStride == 0 {
			refresh()
		}

		moved := make([]Geometry.Vec3, len(m.Vertices))
		totalMove := 0.0
		for v, p := range m.Vertices {
			moved[v] = p
			h := hits[v]
			if !h.ok {
				continue
			}

			var nbrs []int
			if boundary[v] {
				if !cfg.BoundarySlide {
					// 边界锁死时仍做法向贴附，保持轮廓贴在表面上
					dn := h.point.Sub(p).Dot(h.normal)
					moved[v] = p.Add(h.normal.Scale(cfg.SnapFraction * dn))
					totalMove += moved[v].Distance(p)
					continue
				}
				nbrs = boundaryNbrs[v]
			} else {
				nbrs = neighbors[v]
			}
			if len(nbrs) == 0 {
				continue
			}

			avg := Geometry.Vec3{}
			for _, nb := range nbrs {
				avg = avg.Add(m.Vertices[nb])
			}
			avg = avg.Scale(1.0 / float64(len(nbrs)))

			delta := avg.Sub(p)
			// 位移压到切平面内，避免松弛把点推离表面
			delta = delta.Sub(h.normal.Scale(delta.Dot(h.normal)))

			// 邻边方向与主曲率方向越对齐，切向流动越放得开(0.5~1.0)
			if cfg.UseCurvature {
				sum := 0.0
				cnt := 0
				for _, nb := range nbrs {
					e := m.Vertices[nb].Sub(p)
					e = e.Sub(h.normal.Scale(e.Dot(h.normal)))
					if e.LengthSquared() > 0 {
						sum += math.Abs(e.Normalize().Dot(h.curvU))
						cnt++
					}
				}
				if cnt > 0 {
					delta = delta.Scale(0.5 + 0.5*sum/float64(cnt))
				}
			}

			// 边界点只允许沿边界切向滑动
			if boundary[v] && len(boundaryNbrs[v]) == 2 {
				tangent := m.Vertices[boundaryNbrs[v][1]].Sub(m.Vertices[boundaryNbrs[v][0]]).Normalize()
				delta = tangent.Scale(delta.Dot(tangent))
			}

			next := p.Add(delta.Scale(cfg.RelaxFactor))
			// 贴附只收法向分量
			dn := h.point.Sub(next).Dot(h.normal)
			next = next.Add(h.normal.Scale(cfg.SnapFraction * dn))
			moved[v] = next
			totalMove += next.Distance(p)
		}
		copy(m.Vertices, moved)

		result.Iterations = it + 1
		result.MeanMove = totalMove / float64(len(m.Vertices))
		if result.MeanMove < cfg.MoveThreshold {
			result.Converged = true
			break
		}
	}

	// 收尾：全部顶点投到表面并沿法向抬起微小间隙
	for v, p := range m.Vertices {
		pt, n, ok := surf.NearestSurface(p)
		if !ok {
			result.MissCount++
			continue
		}
		m.Vertices[v] = pt.Add(n.Scale(cfg.FinalOffset))
	}

	result.ElapsedMilli = time.Since(start).Milliseconds()
	return result, nil
}

// boundaryNeighborTable 仅统计边界边构成的邻接
func boundaryNeighborTable(m *Geometry.IndexedMesh) [][]int {
	table := make([][]int, len(m.Vertices))
	for _, e := range m.BoundaryEdges() {
		table[e[0]] = append(table[e[0]], e[1])
		table[e[1]] = append(table[e[1]], e[0])
	}
	return table
}

// preSmoothBoundary 边界链上的轻量拉普拉斯平滑
func preSmoothBoundary(m *Geometry.IndexedMesh, boundaryNbrs [][]int) {
	for pass := 0; pass < preSmoothPasses; pass++ {
		next := make(map[int]Geometry.Vec3)
		for v, nbrs := range boundaryNbrs {
			if len(nbrs) != 2 {
				continue
			}
			avg := m.Vertices[nbrs[0]].Add(m.Vertices[nbrs[1]]).Scale(0.5)
			next[v] = m.Vertices[v].Lerp(avg, preSmoothFactor)
		}
		for v, p := range next {
			m.Vertices[v] = p
		}
	}
}
