package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/newsboard/internal/model"
)

// GroupRepository 帖子组存储
type GroupRepository interface {
	WithTx(tx *gorm.DB) GroupRepository
	Create(ctx context.Context, g *model.Newsgroup) error
	GetByName(ctx context.Context, name string) (*model.Newsgroup, error)
	GetByID(ctx context.Context, id int64) (*model.Newsgroup, error)
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, name string) (bool, error)
	// Names 返回全部组名，升序
	Names(ctx context.Context) ([]string, error)
}

type groupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) GroupRepository { return &groupRepository{db: db} }

func (r *groupRepository) WithTx(tx *gorm.DB) GroupRepository { return &groupRepository{db: tx} }

func (r *groupRepository) Create(ctx context.Context, g *model.Newsgroup) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *groupRepository) GetByName(ctx context.Context, name string) (*model.Newsgroup, error) {
	var g model.Newsgroup
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *groupRepository) GetByID(ctx context.Context, id int64) (*model.Newsgroup, error) {
	var g model.Newsgroup
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *groupRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Newsgroup{}).Error
}

func (r *groupRepository) Exists(ctx context.Context, name string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Newsgroup{}).
		Where("name = ?", name).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *groupRepository) Names(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&model.Newsgroup{}).
		Order("name ASC").
		Pluck("name", &names).Error
	return names, err
}
