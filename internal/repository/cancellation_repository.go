package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/newsboard/internal/model"
)

// CancellationRepository 墓碑日志（append-only，ID 全局严格递增）
type CancellationRepository interface {
	WithTx(tx *gorm.DB) CancellationRepository
	// Append 追加一条墓碑，返回其日志序号
	Append(ctx context.Context, groupID, postID int64) (int64, error)
	// ListSince 返回组内序号大于 afterID 的被删帖 ID，按序号升序
	ListSince(ctx context.Context, groupID, afterID int64) ([]int64, error)
	// LatestID 返回最新墓碑序号；日志为空时返回 0
	LatestID(ctx context.Context) (int64, error)
	// DeleteForGroup 仅供整组拆除使用
	DeleteForGroup(ctx context.Context, groupID int64) error
}

type cancellationRepository struct {
	db *gorm.DB
}

func NewCancellationRepository(db *gorm.DB) CancellationRepository {
	return &cancellationRepository{db: db}
}

func (r *cancellationRepository) WithTx(tx *gorm.DB) CancellationRepository {
	return &cancellationRepository{db: tx}
}

func (r *cancellationRepository) Append(ctx context.Context, groupID, postID int64) (int64, error) {
	c := &model.Cancellation{GroupID: groupID, PostID: postID}
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return 0, err
	}
	return c.ID, nil
}

func (r *cancellationRepository) ListSince(ctx context.Context, groupID, afterID int64) ([]int64, error) {
	var postIDs []int64
	err := r.db.WithContext(ctx).
		Model(&model.Cancellation{}).
		Where("group_id = ? AND id > ?", groupID, afterID).
		Order("id ASC").
		Pluck("post_id", &postIDs).Error
	return postIDs, err
}

func (r *cancellationRepository) LatestID(ctx context.Context) (int64, error) {
	var c model.Cancellation
	err := r.db.WithContext(ctx).Order("id DESC").First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return c.ID, nil
}

func (r *cancellationRepository) DeleteForGroup(ctx context.Context, groupID int64) error {
	return r.db.WithContext(ctx).Where("group_id = ?", groupID).Delete(&model.Cancellation{}).Error
}
