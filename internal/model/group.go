package model

import "time"

// Newsgroup 帖子组（以一个系统根帖为树顶）
type Newsgroup struct {
	ID         int64  `gorm:"primaryKey"`
	Name       string `gorm:"type:varchar(128);uniqueIndex:ux_group_name;not null"`
	RootPostID int64  `gorm:"not null"`
	// AnonymousLevel 匿名访问级别，校验与判定委托给访问控制
	AnonymousLevel string `gorm:"type:varchar(16);not null;default:'read'"`
	CreatedAt      time.Time
}

func (Newsgroup) TableName() string { return "newsgroups" }
