package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/newsboard/internal/model"
)

// PostRepository 帖子存储（单条记录与邻接关系，不理解树结构）
type PostRepository interface {
	// WithTx 返回绑定到事务句柄的仓储副本
	WithTx(tx *gorm.DB) PostRepository
	Create(ctx context.Context, post *model.Post) error
	Get(ctx context.Context, id int64) (*model.Post, error)
	Delete(ctx context.Context, id int64) error
	SetGroupID(ctx context.Context, id, groupID int64) error
	CreateReplyEdge(ctx context.Context, parentID, childID int64) error
	DeleteReplyEdgeByChild(ctx context.Context, childID int64) error
	// ParentID 返回 childID 的父帖 ID；根帖没有父，返回 gorm.ErrRecordNotFound
	ParentID(ctx context.Context, childID int64) (int64, error)
	// ListChildren 按创建序倒序（新帖在前）返回直接子帖；limit <= 0 表示不分页
	ListChildren(ctx context.Context, parentID int64, offset, limit int) ([]*model.Post, error)
	ListChildIDs(ctx context.Context, parentID int64) ([]int64, error)
	// ListGroupSince 返回组内 post_date > after 的帖子，排除 excludeID（根帖）
	ListGroupSince(ctx context.Context, groupID, after, excludeID int64) ([]*model.Post, error)
	CountByGroup(ctx context.Context, groupID int64) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) WithTx(tx *gorm.DB) PostRepository { return &postRepository{db: tx} }

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) Get(ctx context.Context, id int64) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// Delete 删除帖子行；目标不存在时为空操作（重试安全）
func (r *postRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Post{}).Error
}

func (r *postRepository) SetGroupID(ctx context.Context, id, groupID int64) error {
	return r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", id).
		Update("group_id", groupID).Error
}

func (r *postRepository) CreateReplyEdge(ctx context.Context, parentID, childID int64) error {
	return r.db.WithContext(ctx).Create(&model.Reply{ParentID: parentID, ChildID: childID}).Error
}

func (r *postRepository) DeleteReplyEdgeByChild(ctx context.Context, childID int64) error {
	return r.db.WithContext(ctx).Where("child_id = ?", childID).Delete(&model.Reply{}).Error
}

func (r *postRepository) ParentID(ctx context.Context, childID int64) (int64, error) {
	var edge model.Reply
	if err := r.db.WithContext(ctx).Where("child_id = ?", childID).First(&edge).Error; err != nil {
		return 0, err
	}
	return edge.ParentID, nil
}

func (r *postRepository) ListChildren(ctx context.Context, parentID int64, offset, limit int) ([]*model.Post, error) {
	var posts []*model.Post
	q := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Joins("JOIN replies ON replies.child_id = posts.id").
		Where("replies.parent_id = ?", parentID).
		Order("posts.id DESC")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	err := q.Find(&posts).Error
	return posts, err
}

func (r *postRepository) ListChildIDs(ctx context.Context, parentID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&model.Reply{}).
		Where("parent_id = ?", parentID).
		Order("child_id DESC").
		Pluck("child_id", &ids).Error
	return ids, err
}

func (r *postRepository) ListGroupSince(ctx context.Context, groupID, after, excludeID int64) ([]*model.Post, error) {
	var posts []*model.Post
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND post_date > ? AND id <> ?", groupID, after, excludeID).
		Order("id ASC").
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) CountByGroup(ctx context.Context, groupID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("group_id = ?", groupID).
		Count(&cnt).Error
	return cnt, err
}
