package views

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GrainArc/PanelForge/Pave"
	"github.com/GrainArc/PanelForge/methods"
	"github.com/GrainArc/PanelForge/models"
)

type autoPaveReq struct {
	PanelUID string `json:"panel_uid" binding:"required"`
	ShellUID string `json:"shell_uid" binding:"required"`

	Iterations    *int     `json:"iterations"`
	RelaxFactor   *float64 `json:"relax_factor"`
	SnapFraction  *float64 `json:"snap_fraction"`
	MoveThreshold *float64 `json:"move_threshold"`
	FinalOffset   *float64 `json:"final_offset"`
	BoundarySlide *bool    `json:"boundary_slide"`
	UseCurvature  *bool    `json:"use_curvature"`
	CurvSamples   *int     `json:"curv_samples"`
	CurvRadius    *float64 `json:"curv_radius"`
}

func (req *autoPaveReq) toConfig() Pave.PaveConfig {
	cfg := Pave.DefaultPaveConfig()
	if req.Iterations != nil {
		cfg.Iterations = *req.Iterations
	}
	if req.RelaxFactor != nil {
		cfg.RelaxFactor = *req.RelaxFactor
	}
	if req.SnapFraction != nil {
		cfg.SnapFraction = *req.SnapFraction
	}
	if req.MoveThreshold != nil {
		cfg.MoveThreshold = *req.MoveThreshold
	}
	if req.FinalOffset != nil {
		cfg.FinalOffset = *req.FinalOffset
	}
	if req.BoundarySlide != nil {
		cfg.BoundarySlide = *req.BoundarySlide
	}
	if req.UseCurvature != nil {
		cfg.UseCurvature = *req.UseCurvature
	}
	if req.CurvSamples != nil {
		cfg.CurvSamples = *req.CurvSamples
	}
	if req.CurvRadius != nil {
		cfg.CurvRadius = *req.CurvRadius
	}
	return cfg
}

// AutoPave 面板自动铺贴到鞋楦表面
// 计算在网格副本上进行，超时或失败不写库
func (con UserController) AutoPave(c *gin.Context) {
	var req autoPaveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		reportError(c, http.StatusBadRequest, err.Error())
		return
	}
	mapper, _, err := methods.LoadShellMapper(req.ShellUID)
	if err != nil {
		reportError(c, http.StatusNotFound, err.Error())
		return
	}
	mesh, panel, err := methods.LoadPanelMesh(req.PanelUID)
	if err != nil {
		reportError(c, http.StatusNotFound, err.Error())
		return
	}

	cfg := req.toConfig()
	working := mesh.Clone()
	result, err := Pave.AutoPave(working, mapper, cfg)
	if err != nil {
		if errors.Is(err, Pave.ErrTimeout) {
			methods.RecordPave(req.PanelUID, OpCancelled, err.Error(), nil)
			reportCancelled(c, err.Error())
			return
		}
		log.Printf("自动铺贴失败: %v", err)
		methods.RecordPave(req.PanelUID, OpError, err.Error(), nil)
		reportError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := methods.UpdatePanelMesh(panel, working, models.PanelKindPaved); err != nil {
		methods.RecordPave(req.PanelUID, OpError, err.Error(), result)
		reportError(c, http.StatusInternalServerError, err.Error())
		return
	}
	methods.RecordPave(req.PanelUID, OpFinished, "", result)
	reportFinished(c, gin.H{"panel": panel, "result": result})
}

// GetPaveRecords 面板的铺贴执行历史
func (con UserController) GetPaveRecords(c *gin.Context) {
	uid := c.Query("panel_uid")
	var records []models.PaveRecord
	err := models.DB.Where("panel_uid = ?", uid).Order("created_at desc").Find(&records).Error
	if err != nil {
		reportError(c, http.StatusInternalServerError, err.Error())
		return
	}
	reportFinished(c, gin.H{"records": records})
}
