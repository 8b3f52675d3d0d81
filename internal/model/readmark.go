package model

// ReadMark 用户已读标记
type ReadMark struct {
	ID       int64  `gorm:"primaryKey"`
	Identity string `gorm:"type:varchar(64);uniqueIndex:ux_readmark_identity_post;not null"`
	PostID   int64  `gorm:"uniqueIndex:ux_readmark_identity_post;index:idx_readmark_post;not null"`
	Read     bool   `gorm:"not null;default:false"`
}

func (ReadMark) TableName() string { return "read_marks" }
