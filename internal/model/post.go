package model

// SystemAuthor 组根帖的系统作者标识
const SystemAuthor = "SYSTEM"

// Post 帖子节点（组内回复树的一个结点）
type Post struct {
	ID int64 `gorm:"primaryKey"`
	// GroupID 为 0 表示根帖尚在建组回填阶段
	GroupID  int64  `gorm:"index:idx_post_group;index:idx_post_group_date;not null;default:0"`
	Author   string `gorm:"type:varchar(64);not null;default:''"` // 空串为匿名
	PostDate int64  `gorm:"index:idx_post_group_date;not null"`   // unix 秒
	Title    string `gorm:"type:varchar(255);not null;default:''"`
	Body     string `gorm:"type:text"`
}

func (Post) TableName() string { return "posts" }

// IsAnonymous 是否匿名发帖
func (p *Post) IsAnonymous() bool { return p.Author == "" }
