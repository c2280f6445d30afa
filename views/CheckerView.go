package views

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GrainArc/PanelForge/Checker"
	"github.com/GrainArc/PanelForge/methods"
	"github.com/GrainArc/PanelForge/models"
)

type checkBoundaryReq struct {
	PanelUID  string   `json:"panel_uid" binding:"required"`
	ShellUID  string   `json:"shell_uid" binding:"required"`
	Action    string   `json:"action"`
	PaddingUV *float64 `json:"padding_uv"`
}

// CheckUVBoundary 检查面板顶点是否越出壳体UV边界
// action=CHECK只报告，action=FIX把违规点拉回边界内侧
// 超时走error分支，绝不误报PASS
func (con UserController) CheckUVBoundary(c *gin.Context) {
	var req checkBoundaryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		reportError(c, http.StatusBadRequest, err.Error())
		return
	}

	action := Checker.ActionCheck
	if req.Action == string(Checker.ActionFix) {
		action = Checker.ActionFix
	}

	shellMesh, shell, err := methods.LoadShellMesh(req.ShellUID)
	if err != nil {
		reportError(c, http.StatusNotFound, err.Error())
		return
	}
	if shell.ScaleFactor == 0 {
		reportError(c, http.StatusBadRequest, "壳体缺少UV比例因子，请先执行UVToMesh")
		return
	}
	edges, err := Checker.UVBoundaryEdges(shellMesh)
	if err != nil {
		reportCancelled(c, err.Error())
		return
	}
	mesh, panel, err := methods.LoadPanelMesh(req.PanelUID)
	if err != nil {
		reportError(c, http.StatusNotFound, err.Error())
		return
	}

	cfg := Checker.DefaultCheckConfig()
	cfg.Action = action
	cfg.ScaleFactor = shell.ScaleFactor
	if req.PaddingUV != nil {
		cfg.PaddingUV = *req.PaddingUV
	}

	working := mesh.Clone()
	result, err := Checker.Check(working, edges, cfg)
	if err != nil {
		methods.RecordCheck(req.PanelUID, action, nil)
		if errors.Is(err, Checker.ErrTimeout) {
			// 超时也是错误结论，绝不误报通过
			reportError(c, http.StatusRequestTimeout, err.Error())
			return
		}
		reportError(c, http.StatusInternalServerError, err.Error())
		return
	}

	if action == Checker.ActionFix && result.Fixed > 0 {
		if err := methods.UpdatePanelMesh(panel, working, panel.Kind); err != nil {
			reportError(c, http.StatusInternalServerError, err.Error())
			return
		}
	}
	methods.RecordCheck(req.PanelUID, action, result)
	reportFinished(c, gin.H{"result": result})
}

// GetCheckRecords 面板的边界检查历史
func (con UserController) GetCheckRecords(c *gin.Context) {
	uid := c.Query("panel_uid")
	var records []models.CheckRecord
	err := models.DB.Where("panel_uid = ?", uid).Order("created_at desc").Find(&records).Error
	if err != nil {
		reportError(c, http.StatusInternalServerError, err.Error())
		return
	}
	reportFinished(c, gin.H{"records": records})
}
