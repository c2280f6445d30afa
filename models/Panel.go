package models

// 面板网格的几种形态
const (
	PanelKindOutline = "outline"
	PanelKindGrid    = "grid"
	PanelKindShell   = "shell3d"
	PanelKindPaved   = "paved"
)

// Panel 鞋面板网格，从轮廓到铺贴各阶段共用一张表
type Panel struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UID      string `gorm:"uniqueIndex;not null" json:"uid"`
	Name     string `gorm:"index;not null" json:"name"`
	ShellUID string `gorm:"index" json:"shell_uid"`
	Kind     string `gorm:"index;not null" json:"kind"`
	MeshData string `gorm:"type:TEXT" json:"-"`

	VertexCount int `json:"vertex_count"`
	FaceCount   int `json:"face_count"`

	CreatedAt int64 `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt int64 `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Panel) TableName() string {
	return "panels"
}
