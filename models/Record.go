package models

// PaveRecord 自动铺贴的一次执行记录
type PaveRecord struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	PanelUID     string  `gorm:"index;not null" json:"panel_uid"`
	Status       string  `gorm:"not null" json:"status"`
	Iterations   int     `json:"iterations"`
	Converged    bool    `json:"converged"`
	MeanMove     float64 `json:"mean_move"`
	MissCount    int     `json:"miss_count"`
	ElapsedMilli int64   `json:"elapsed_milli"`
	Message      string  `json:"message"`

	CreatedAt int64 `gorm:"autoCreateTime" json:"created_at"`
}

func (PaveRecord) TableName() string {
	return "pave_records"
}

// CheckRecord UV边界检查的一次执行记录
type CheckRecord struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	PanelUID       string `gorm:"index;not null" json:"panel_uid"`
	Action         string `gorm:"not null" json:"action"`
	Status         string `gorm:"not null" json:"status"`
	ViolationCount int    `json:"violation_count"`
	Fixed          int    `json:"fixed"`
	Remaining      int    `json:"remaining"`

	CreatedAt int64 `gorm:"autoCreateTime" json:"created_at"`
}

func (CheckRecord) TableName() string {
	return "check_records"
}
