package operator

import "time"

// Operator is a telecom operator owning groups of lines.
type Operator struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"size:100;not null;uniqueIndex" json:"name"`
	ColorHex string `gorm:"size:9" json:"color_hex"`
	IconPath string `json:"icon_path"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Operator) TableName() string {
	return "operators"
}

// OperatorStats is the list row returned to the dashboard: the operator plus
// how many groups and lines it currently owns.
type OperatorStats struct {
	Operator
	GroupsCount int64 `json:"groups_count"`
	LinesCount  int64 `json:"lines_count"`
}
