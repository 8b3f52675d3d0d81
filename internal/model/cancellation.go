package model

// Cancellation 删帖墓碑（append-only，ID 全局单调递增，作为同步游标）
type Cancellation struct {
	ID      int64 `gorm:"primaryKey"`
	GroupID int64 `gorm:"index:idx_cancel_group;not null"`
	PostID  int64 `gorm:"not null"`
}

func (Cancellation) TableName() string { return "cancellations" }
