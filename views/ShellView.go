package views

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/GrainArc/PanelForge/UVMapper"
	"github.com/GrainArc/PanelForge/config"
	"github.com/GrainArc/PanelForge/methods"
	"github.com/GrainArc/PanelForge/models"
)

// ShellUpload 上传鞋楦壳体OBJ（或包含OBJ的zip/rar压缩包）
func (con UserController) ShellUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		reportError(c, http.StatusBadRequest, "没有接收到文件")
		return
	}
	name := c.PostForm("name")
	if name == "" {
		name = strings.TrimSuffix(file.Filename, filepath.Ext(file.Filename))
	}

	uploadDir := filepath.Join(config.Storage, "Upload", uuid.New().String())
	if err := os.MkdirAll(uploadDir, os.ModePerm); err != nil {
		reportError(c, http.StatusInternalServerError, "创建上传目录失败")
		return
	}
	defer methods.CleanupDir(uploadDir)
	path := filepath.Join(uploadDir, file.Filename)
	if err := c.SaveUploadedFile(file, path); err != nil {
		reportError(c, http.StatusInternalServerError, "保存文件失败")
		return
	}

	objPath := path
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".zip" || ext == ".rar" {
		unpath, err := methods.Unzip(path)
		if err != nil {
			reportError(c, http.StatusBadRequest, fmt.Sprintf("解压失败: %v", err))
			return
		}
		objs, err := methods.FindFilesByExt(unpath, ".obj")
		if err != nil || len(objs) == 0 {
			reportError(c, http.StatusBadRequest, "压缩包里没有OBJ文件")
			return
		}
		objPath = objs[0]
	} else if ext != ".obj" {
		reportError(c, http.StatusBadRequest, "只支持obj/zip/rar格式")
		return
	}

	shell, err := methods.SaveShellFromObj(name, objPath)
	if err != nil {
		log.Printf("壳体入库失败: %v", err)
		reportError(c, http.StatusBadRequest, err.Error())
		return
	}
	reportFinished(c, gin.H{"shell": shell})
}

// GetShellList 壳体列表，不带网格数据
func (con UserController) GetShellList(c *gin.Context) {
	var shells []models.Shell
	err := models.DB.
		Select("id", "uid", "name", "uv_map_name", "scale_factor", "vertex_count", "face_count", "created_at", "updated_at").
		Order("created_at desc").Find(&shells).Error
	if err != nil {
		reportError(c, http.StatusInternalServerError, err.Error())
		return
	}
	reportFinished(c, gin.H{"shells": shells})
}

// GetShell 单个壳体，with_mesh=1时附带网格JSON
func (con UserController) GetShell(c *gin.Context) {
	uid := c.Query("uid")
	shell, err := methods.LoadShell(uid)
	if err != nil {
		reportError(c, http.StatusNotFound, err.Error())
		return
	}
	data := gin.H{"shell": shell}
	if c.Query("with_mesh") == "1" {
		mesh, err := methods.DecodeMesh(shell.MeshData)
		if err != nil {
			reportError(c, http.StatusInternalServerError, err.Error())
			return
		}
		data["mesh"] = mesh
	}
	reportFinished(c, data)
}

type uvToMeshReq struct {
	ShellUID  string `json:"shell_uid" binding:"required"`
	AutoScale *bool  `json:"auto_scale"`
}

// UVToMesh 重建壳体的UV展开网格并回写比例因子
// auto_scale默认开启，关闭后按原始UV坐标输出
func (con UserController) UVToMesh(c *gin.Context) {
	var req uvToMeshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		reportError(c, http.StatusBadRequest, err.Error())
		return
	}
	autoScale := true
	if req.AutoScale != nil {
		autoScale = *req.AutoScale
	}

	shellMesh, shell, err := methods.LoadShellMesh(req.ShellUID)
	if err != nil {
		reportError(c, http.StatusNotFound, err.Error())
		return
	}
	result, err := UVMapper.BuildUVMesh(shellMesh, shell.Name, autoScale)
	if err != nil {
		reportError(c, http.StatusBadRequest, err.Error())
		return
	}

	uvMeshData, err := methods.EncodeMesh(result.Mesh)
	if err != nil {
		reportError(c, http.StatusInternalServerError, err.Error())
		return
	}
	shell.UVMeshData = uvMeshData
	shell.ScaleFactor = result.Meta.ScaleFactor
	if err := models.DB.Save(shell).Error; err != nil {
		reportError(c, http.StatusInternalServerError, fmt.Sprintf("壳体回写失败: %v", err))
		return
	}

	reportFinished(c, gin.H{
		"mesh": result.Mesh,
		"meta": result.Meta,
	})
}
