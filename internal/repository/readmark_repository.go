package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/newsboard/internal/model"
)

// ReadMarkRepository 已读状态存储（读/未读归属外部协作方，这里只维护记录）
type ReadMarkRepository interface {
	WithTx(tx *gorm.DB) ReadMarkRepository
	Set(ctx context.Context, identity string, postID int64, read bool) error
	IsRead(ctx context.Context, identity string, postID int64) (bool, error)
	// DeleteForPost 级联删帖时清理全部引用
	DeleteForPost(ctx context.Context, postID int64) error
}

type readMarkRepository struct {
	db *gorm.DB
}

func NewReadMarkRepository(db *gorm.DB) ReadMarkRepository { return &readMarkRepository{db: db} }

func (r *readMarkRepository) WithTx(tx *gorm.DB) ReadMarkRepository {
	return &readMarkRepository{db: tx}
}

// Set 幂等写入：同一 (identity, post) 重复标记只更新 read 位
func (r *readMarkRepository) Set(ctx context.Context, identity string, postID int64, read bool) error {
	m := &model.ReadMark{Identity: identity, PostID: postID, Read: read}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "identity"}, {Name: "post_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"read"}),
	}).Create(m).Error
}

func (r *readMarkRepository) IsRead(ctx context.Context, identity string, postID int64) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.ReadMark{}).
		Where("identity = ? AND post_id = ? AND read = ?", identity, postID, true).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *readMarkRepository) DeleteForPost(ctx context.Context, postID int64) error {
	return r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&model.ReadMark{}).Error
}
