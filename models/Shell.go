package models

// Shell 鞋楦壳体网格，UV层与展开结果一并入库
// MeshData/UVData/UVMeshData均为JSON文本
type Shell struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	UID         string  `gorm:"uniqueIndex;not null" json:"uid"`
	Name        string  `gorm:"index;not null" json:"name"`
	MeshData    string  `gorm:"type:TEXT" json:"-"`
	UVData      string  `gorm:"type:TEXT" json:"-"`
	UVMapName   string  `json:"uv_map_name"`
	UVMeshData  string  `gorm:"type:TEXT" json:"-"`
	ScaleFactor float64 `json:"scale_factor"`
	VertexCount int     `json:"vertex_count"`
	FaceCount   int     `json:"face_count"`

	CreatedAt int64 `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt int64 `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Shell) TableName() string {
	return "shells"
}
