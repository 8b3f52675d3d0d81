package model

// Reply 回复邻接关系（parent_id -> child_id）
// 每个非根帖恰有一行以其为 child；根帖没有对应行
type Reply struct {
	ChildID  int64 `gorm:"primaryKey;autoIncrement:false"`
	ParentID int64 `gorm:"index:idx_reply_parent;not null"`
}

func (Reply) TableName() string { return "replies" }
