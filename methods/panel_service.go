package methods

import (
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/GrainArc/PanelForge/Checker"
	"github.com/GrainArc/PanelForge/Geometry"
	"github.com/GrainArc/PanelForge/Pave"
	"github.com/GrainArc/PanelForge/Transformer"
	"github.com/GrainArc/PanelForge/UVMapper"
	"github.com/GrainArc/PanelForge/models"
)

// SaveShellFromObj 解析OBJ文件并入库：网格、UV层、UV展开网格与比例因子一次算齐
func SaveShellFromObj(name string, objPath string) (*models.Shell, error) {
	f, err := os.Open(objPath)
	if err != nil {
		return nil, fmt.Errorf("打开OBJ失败: %v", err)
	}
	defer f.Close()

	shellMesh, err := Transformer.ParseObj(f)
	if err != nil {
		return nil, err
	}
	uvResult, err := UVMapper.BuildUVMesh(shellMesh, name, true)
	if err != nil {
		return nil, err
	}

	meshData, err := EncodeMesh(shellMesh.Mesh)
	if err != nil {
		return nil, err
	}
	uvData, err := EncodeUVLayer(shellMesh.UV)
	if err != nil {
		return nil, err
	}
	uvMeshData, err := EncodeMesh(uvResult.Mesh)
	if err != nil {
		return nil, err
	}

	shell := &models.Shell{
		UID:         uuid.New().String(),
		Name:        name,
		MeshData:    meshData,
		UVData:      uvData,
		UVMapName:   shellMesh.UVMapName,
		UVMeshData:  uvMeshData,
		ScaleFactor: uvResult.Meta.ScaleFactor,
		VertexCount: len(shellMesh.Mesh.Vertices),
		FaceCount:   len(shellMesh.Mesh.Faces),
	}
	if err := models.DB.Create(shell).Error; err != nil {
		return nil, fmt.Errorf("壳体入库失败: %v", err)
	}
	return shell, nil
}

// LoadShell 按UID取壳体记录
func LoadShell(uid string) (*models.Shell, error) {
	var shell models.Shell
	if err := models.DB.Where("uid = ?", uid).First(&shell).Error; err != nil {
		return nil, fmt.Errorf("壳体%s不存在: %v", uid, err)
	}
	return &shell, nil
}

// LoadShellMesh 还原壳体网格与UV层
func LoadShellMesh(uid string) (*UVMapper.ShellMesh, *models.Shell, error) {
	shell, err := LoadShell(uid)
	if err != nil {
		return nil, nil, err
	}
	mesh, err := DecodeMesh(shell.MeshData)
	if err != nil {
		return nil, nil, err
	}
	uv, err := DecodeUVLayer(shell.UVData)
	if err != nil {
		return nil, nil, err
	}
	return &UVMapper.ShellMesh{Mesh: mesh, UV: uv, UVMapName: shell.UVMapName}, shell, nil
}

// LoadShellMapper 还原壳体并建立UV双向映射器
func LoadShellMapper(uid string) (*UVMapper.Mapper, *models.Shell, error) {
	shellMesh, shell, err := LoadShellMesh(uid)
	if err != nil {
		return nil, nil, err
	}
	mapper, err := UVMapper.NewMapper(shellMesh)
	if err != nil {
		return nil, nil, err
	}
	return mapper, shell, nil
}

// SavePanel 新建面板记录
func SavePanel(name, shellUID, kind string, mesh *Geometry.IndexedMesh) (*models.Panel, error) {
	meshData, err := EncodeMesh(mesh)
	if err != nil {
		return nil, err
	}
	panel := &models.Panel{
		UID:         uuid.New().String(),
		Name:        name,
		ShellUID:    shellUID,
		Kind:        kind,
		MeshData:    meshData,
		VertexCount: len(mesh.Vertices),
		FaceCount:   len(mesh.Faces),
	}
	if err := models.DB.Create(panel).Error; err != nil {
		return nil, fmt.Errorf("面板入库失败: %v", err)
	}
	return panel, nil
}

// LoadPanelMesh 按UID取面板并还原网格
func LoadPanelMesh(uid string) (*Geometry.IndexedMesh, *models.Panel, error) {
	var panel models.Panel
	if err := models.DB.Where("uid = ?", uid).First(&panel).Error; err != nil {
		return nil, nil, fmt.Errorf("面板%s不存在: %v", uid, err)
	}
	mesh, err := DecodeMesh(panel.MeshData)
	if err != nil {
		return nil, nil, err
	}
	return mesh, &panel, nil
}

// UpdatePanelMesh 操作成功后回写面板网格
// 计算全程在内存副本上进行，失败时不回写即等于回滚
func UpdatePanelMesh(panel *models.Panel, mesh *Geometry.IndexedMesh, kind string) error {
	meshData, err := EncodeMesh(mesh)
	if err != nil {
		return err
	}
	panel.MeshData = meshData
	panel.Kind = kind
	panel.VertexCount = len(mesh.Vertices)
	panel.FaceCount = len(mesh.Faces)
	if err := models.DB.Save(panel).Error; err != nil {
		return fmt.Errorf("面板回写失败: %v", err)
	}
	return nil
}

// RecordPave 落一条铺贴执行记录
func RecordPave(panelUID, status, message string, result *Pave.PaveResult) {
	rec := &models.PaveRecord{
		PanelUID: panelUID,
		Status:   status,
		Message:  message,
	}
	if result != nil {
		rec.Iterations = result.Iterations
		rec.Converged = result.Converged
		rec.MeanMove = result.MeanMove
		rec.MissCount = result.MissCount
		rec.ElapsedMilli = result.ElapsedMilli
	}
	models.DB.Create(rec)
}

// RecordCheck 落一条边界检查记录
func RecordCheck(panelUID string, action Checker.CheckAction, result *Checker.CheckResult) {
	rec := &models.CheckRecord{
		PanelUID: panelUID,
		Action:   string(action),
	}
	if result != nil {
		rec.Status = string(result.Status)
		rec.ViolationCount = len(result.ViolationIDs)
		rec.Fixed = result.Fixed
		rec.Remaining = result.Remaining
	}
	models.DB.Create(rec)
}
