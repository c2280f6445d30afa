package views

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/GrainArc/PanelForge/Geometry"
	"github.com/GrainArc/PanelForge/Transformer"
	"github.com/GrainArc/PanelForge/UVMapper"
	"github.com/GrainArc/PanelForge/config"
	"github.com/GrainArc/PanelForge/methods"
	"github.com/GrainArc/PanelForge/models"
)

type sampleCurveReq struct {
	Geojson  json.RawMessage `json:"geojson" binding:"required"`
	Count    int             `json:"count" binding:"required"`
	Name     string          `json:"name"`
	ShellUID string          `json:"shell_uid"`
	Save     bool            `json:"save"`
}

// SampleCurve 设计笔画重采样成等距点列
// 点数必须是偶数，后续栅格填充依赖偶数边界
func (con UserController) SampleCurve(c *gin.Context) {
	var req sampleCurveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		reportError(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Count%2 != 0 {
		reportError(c, http.StatusBadRequest, fmt.Sprintf("采样点数必须是偶数，当前为%d", req.Count))
		return
	}

	line, err := Transformer.GeojsonToPolyline(req.Geojson)
	if err != nil {
		reportError(c, http.StatusBadRequest, err.Error())
		return
	}
	sampled, err := Geometry.ResamplePolyline(line, req.Count)
	if err != nil {
		reportError(c, http.StatusBadRequest, err.Error())
		return
	}
	// 重采样后的轮廓默认当闭合环处理
	sampled.Cyclic = true

	data := gin.H{"polyline": Transformer.PolylineToGeojson(sampled, nil)}
	if req.Save {
		name := req.Name
		if name == "" {
			name = "curve"
		}
		panel, err := methods.SavePanel(name, req.ShellUID, models.PanelKindOutline, Geometry.OutlineMesh(sampled))
		if err != nil {
			reportError(c, http.StatusInternalServerError, err.Error())
			return
		}
		data["panel"] = panel
	}
	reportFinished(c, data)
}

type quadFillReq struct {
	PanelUID    string   `json:"panel_uid" binding:"required"`
	Span        int      `json:"span"`
	Offset      int      `json:"offset"`
	Equalize    *bool    `json:"equalize"`
	AspectLimit *float64 `json:"aspect_limit"`
	Damp        *float64 `json:"damp"`
	SmoothIters *int     `json:"smooth_iters"`
}

// QuadFill 把轮廓面板填成四边形主导网格
func (con UserController) QuadFill(c *gin.Context) {
	var req quadFillReq
	if err := c.ShouldBindJSON(&req); err != nil {
		reportError(c, http.StatusBadRequest, err.Error())
		return
	}
	mesh, panel, err := methods.LoadPanelMesh(req.PanelUID)
	if err != nil {
		reportError(c, http.StatusNotFound, err.Error())
		return
	}

	cfg := Geometry.DefaultFillConfig()
	if req.Span > 0 {
		cfg.Span = req.Span
	}
	cfg.Offset = req.Offset
	if req.Equalize != nil {
		cfg.Equalize = *req.Equalize
	}
	if req.AspectLimit != nil {
		cfg.AspectLimit = *req.AspectLimit
	}
	if req.Damp != nil {
		cfg.Damp = *req.Damp
	}
	if req.SmoothIters != nil {
		cfg.SmoothIters = *req.SmoothIters
	}

	if err := Geometry.FillBoundary(mesh, cfg); err != nil {
		reportCancelled(c, err.Error())
		return
	}
	if err := methods.UpdatePanelMesh(panel, mesh, models.PanelKindGrid); err != nil {
		reportError(c, http.StatusInternalServerError, err.Error())
		return
	}
	reportFinished(c, gin.H{"panel": panel})
}

type uvToShellReq struct {
	PanelUID string   `json:"panel_uid" binding:"required"`
	ShellUID string   `json:"shell_uid" binding:"required"`
	Conform  bool     `json:"conform"`
	Offset   *float64 `json:"offset"`
}

// UVToShell 把2D面板经UV反查映射到鞋楦3D表面
// 单点落在UV缝隙外不算失败，只累计告警数，点位保持原样
func (con UserController) UVToShell(c *gin.Context) {
	var req uvToShellReq
	if err := c.ShouldBindJSON(&req); err != nil {
		reportError(c, http.StatusBadRequest, err.Error())
		return
	}
	mapper, shell, err := methods.LoadShellMapper(req.ShellUID)
	if err != nil {
		reportError(c, http.StatusNotFound, err.Error())
		return
	}
	mesh, panel, err := methods.LoadPanelMesh(req.PanelUID)
	if err != nil {
		reportError(c, http.StatusNotFound, err.Error())
		return
	}
	if shell.ScaleFactor == 0 {
		reportError(c, http.StatusBadRequest, "壳体缺少UV比例因子，请先执行UVToMesh")
		return
	}

	offset := 0.0005
	if req.Offset != nil {
		offset = *req.Offset
	}

	out := mesh.Clone()
	missCount := 0
	for i, p := range out.Vertices {
		uv, err := UVMapper.PanelToUV(p, shell.ScaleFactor)
		if err != nil {
			reportError(c, http.StatusBadRequest, err.Error())
			return
		}
		p3, ok := mapper.UVTo3D(uv)
		if !ok {
			missCount++
			continue
		}
		out.Vertices[i] = p3
	}
	if missCount == len(out.Vertices) {
		reportCancelled(c, "所有顶点都在UV边界之外，映射失败")
		return
	}

	if req.Conform {
		for i, p := range out.Vertices {
			pt, n, ok := mapper.NearestSurface(p)
			if !ok {
				continue
			}
			out.Vertices[i] = pt.Add(n.Scale(offset))
		}
	}

	newPanel, err := methods.SavePanel(panel.Name+"_3d", req.ShellUID, models.PanelKindShell, out)
	if err != nil {
		reportError(c, http.StatusInternalServerError, err.Error())
		return
	}
	reportFinished(c, gin.H{"panel": newPanel, "miss_count": missCount})
}

type shellToUVReq struct {
	PanelUID string `json:"panel_uid" binding:"required"`
	ShellUID string `json:"shell_uid" binding:"required"`
}

// ShellToUV 把3D面板正向投影回UV平面
func (con UserController) ShellToUV(c *gin.Context) {
	var req shellToUVReq
	if err := c.ShouldBindJSON(&req); err != nil {
		reportError(c, http.StatusBadRequest, err.Error())
		return
	}
	mapper, shell, err := methods.LoadShellMapper(req.ShellUID)
	if err != nil {
		reportError(c, http.StatusNotFound, err.Error())
		return
	}
	mesh, panel, err := methods.LoadPanelMesh(req.PanelUID)
	if err != nil {
		reportError(c, http.StatusNotFound, err.Error())
		return
	}
	if shell.ScaleFactor == 0 {
		reportError(c, http.StatusBadRequest, "壳体缺少UV比例因子，请先执行UVToMesh")
		return
	}

	out := mesh.Clone()
	missCount := 0
	for i, p := range out.Vertices {
		uv, ok := mapper.PointToUV(p)
		if !ok {
			missCount++
			continue
		}
		out.Vertices[i] = UVMapper.UVToPanel(uv, shell.ScaleFactor)
	}
	if missCount == len(out.Vertices) {
		reportCancelled(c, "没有任何顶点能投影到UV平面")
		return
	}

	newPanel, err := methods.SavePanel(panel.Name+"_uv", req.ShellUID, models.PanelKindOutline, out)
	if err != nil {
		reportError(c, http.StatusInternalServerError, err.Error())
		return
	}
	reportFinished(c, gin.H{"panel": newPanel, "miss_count": missCount})
}

type mirrorReq struct {
	PanelUID string  `json:"panel_uid" binding:"required"`
	Axis     int     `json:"axis"`
	Center   float64 `json:"center"`
}

// MirrorPanel 沿指定轴镜像面板，面环绕方向同步翻转
func (con UserController) MirrorPanel(c *gin.Context) {
	var req mirrorReq
	if err := c.ShouldBindJSON(&req); err != nil {
		reportError(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Axis < 0 || req.Axis > 2 {
		reportError(c, http.StatusBadRequest, fmt.Sprintf("非法镜像轴: %d", req.Axis))
		return
	}
	mesh, panel, err := methods.LoadPanelMesh(req.PanelUID)
	if err != nil {
		reportError(c, http.StatusNotFound, err.Error())
		return
	}

	out := mesh.Clone()
	for i, p := range out.Vertices {
		switch req.Axis {
		case 0:
			p.X = 2*req.Center - p.X
		case 1:
			p.Y = 2*req.Center - p.Y
		case 2:
			p.Z = 2*req.Center - p.Z
		}
		out.Vertices[i] = p
	}
	// 镜像翻转了手性，面索引倒序恢复法向
	for _, f := range out.Faces {
		for i, j := 0, len(f)-1; i < j; i, j = i+1, j-1 {
			f[i], f[j] = f[j], f[i]
		}
	}

	newPanel, err := methods.SavePanel(panel.Name+"_mirror", panel.ShellUID, panel.Kind, out)
	if err != nil {
		reportError(c, http.StatusInternalServerError, err.Error())
		return
	}
	reportFinished(c, gin.H{"panel": newPanel})
}

// Preview 面板线框预览图，format=png|webp
func (con UserController) Preview(c *gin.Context) {
	uid := c.Query("uid")
	format := c.DefaultQuery("format", "png")
	mesh, panel, err := methods.LoadPanelMesh(uid)
	if err != nil {
		reportError(c, http.StatusNotFound, err.Error())
		return
	}
	img, err := methods.CreatePreview(mesh, panel.Name, format)
	if err != nil {
		reportError(c, http.StatusInternalServerError, err.Error())
		return
	}
	contentType := "image/png"
	if format == "webp" {
		contentType = "image/webp"
	}
	c.Data(http.StatusOK, contentType, img)
}

// DownloadPanel 面板导出为OBJ并打包zip返回
func (con UserController) DownloadPanel(c *gin.Context) {
	uid := c.Query("uid")
	mesh, panel, err := methods.LoadPanelMesh(uid)
	if err != nil {
		reportError(c, http.StatusNotFound, err.Error())
		return
	}

	safeName := methods.SafeFileName(panel.Name)
	outDir := filepath.Join(config.Storage, "Download", uuid.New().String())
	if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
		reportError(c, http.StatusInternalServerError, err.Error())
		return
	}
	defer os.RemoveAll(outDir)

	objPath := filepath.Join(outDir, safeName+".obj")
	f, err := os.Create(objPath)
	if err != nil {
		reportError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if err := Transformer.WriteObj(f, mesh, nil, panel.Name); err != nil {
		f.Close()
		reportError(c, http.StatusInternalServerError, err.Error())
		return
	}
	f.Close()

	zipBytes, err := methods.ZipFileOut(outDir)
	if err != nil {
		reportError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.zip", safeName))
	c.Data(http.StatusOK, "application/zip", zipBytes)
}
