package service

import (
	"context"

	"github.com/d60-Lab/newsboard/internal/model"
)

// 匿名访问级别的识别值
const (
	LevelNone  = "none"
	LevelRead  = "read"
	LevelWrite = "write"
)

// AccessControl 访问控制协作方接口
type AccessControl interface {
	// ValidLevel 判断级别是否为识别值
	ValidLevel(level string) bool
	// CanReadGroup 判断身份是否可读该组（identity 空串为匿名）
	CanReadGroup(g *model.Newsgroup, identity string) bool
	// DeleteGroupBindings 整组拆除时移除该组的全部权限绑定
	DeleteGroupBindings(ctx context.Context, groupID int64) error
}

// levelAccessControl 默认实现：登录用户可读一切，匿名按组级别判定
type levelAccessControl struct{}

func NewAccessControl() AccessControl { return &levelAccessControl{} }

func (levelAccessControl) ValidLevel(level string) bool {
	switch level {
	case LevelNone, LevelRead, LevelWrite:
		return true
	}
	return false
}

func (levelAccessControl) CanReadGroup(g *model.Newsgroup, identity string) bool {
	if identity != "" {
		return true
	}
	return g.AnonymousLevel == LevelRead || g.AnonymousLevel == LevelWrite
}

// DeleteGroupBindings 默认实现不存储逐用户绑定，无事可做
func (levelAccessControl) DeleteGroupBindings(ctx context.Context, groupID int64) error {
	return nil
}
