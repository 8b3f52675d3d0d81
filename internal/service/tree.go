package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/newsboard/internal/model"
	"github.com/d60-Lab/newsboard/internal/repository"
)

// PageSize 子帖列表固定页大小
const PageSize = 50

var (
	ErrInvalidPage  = errors.New("invalid page index")
	ErrPostNotFound = errors.New("post does not exist")
)

// TreeService 回复树的结构操作（遍历、作者校验、级联删除）
type TreeService interface {
	// Children 返回全部直接子帖，创建序倒序（新帖在前）
	Children(ctx context.Context, parentID int64) ([]*model.Post, error)
	// ChildrenPage 返回第 page 页（从 0 起），负数页返回 ErrInvalidPage。
	// 倒序列表上的 offset 分页在并发插入下不稳定，属已知限制，保持原语义。
	ChildrenPage(ctx context.Context, parentID int64, page int) ([]*model.Post, error)
	// SubtreeAuthoredBy 判断 postID 及其全部后代是否均由 identity 发表
	SubtreeAuthoredBy(ctx context.Context, postID int64, identity string) (bool, error)
	// RecursiveDelete 后序级联删除整棵子树；重复调用为空操作
	RecursiveDelete(ctx context.Context, postID int64) error
}

type treeService struct {
	db      *gorm.DB
	posts   repository.PostRepository
	cancels repository.CancellationRepository
	marks   repository.ReadMarkRepository
}

func NewTreeService(
	db *gorm.DB,
	posts repository.PostRepository,
	cancels repository.CancellationRepository,
	marks repository.ReadMarkRepository,
) TreeService {
	return &treeService{db: db, posts: posts, cancels: cancels, marks: marks}
}

func (s *treeService) Children(ctx context.Context, parentID int64) ([]*model.Post, error) {
	return s.posts.ListChildren(ctx, parentID, 0, 0)
}

func (s *treeService) ChildrenPage(ctx context.Context, parentID int64, page int) ([]*model.Post, error) {
	if page < 0 {
		return nil, ErrInvalidPage
	}
	return s.posts.ListChildren(ctx, parentID, page*PageSize, PageSize)
}

// SubtreeAuthoredBy 显式栈深度优先，首个作者不符即短路
func (s *treeService) SubtreeAuthoredBy(ctx context.Context, postID int64, identity string) (bool, error) {
	stack := []int64{postID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		post, err := s.posts.Get(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrPostNotFound
		}
		if err != nil {
			return false, err
		}
		if post.Author != identity {
			return false, nil
		}

		children, err := s.posts.ListChildIDs(ctx, id)
		if err != nil {
			return false, err
		}
		stack = append(stack, children...)
	}
	return true, nil
}

// RecursiveDelete 单事务内完成整棵子树的删除。
// 每个结点依次：追加墓碑、删帖子行、清已读标记、删邻接行；
// 子结点先于父结点处理。途中遇到已删结点直接跳过，保证重试安全。
func (s *treeService) RecursiveDelete(ctx context.Context, postID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		posts := s.posts.WithTx(tx)
		cancels := s.cancels.WithTx(tx)
		marks := s.marks.WithTx(tx)

		// 先序遍历收集子树，反向处理即得“子先于父”
		order := make([]int64, 0, 16)
		stack := []int64{postID}
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			order = append(order, id)

			children, err := posts.ListChildIDs(ctx, id)
			if err != nil {
				return err
			}
			stack = append(stack, children...)
		}

		for i := len(order) - 1; i >= 0; i-- {
			id := order[i]
			post, err := posts.Get(ctx, id)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if _, err := cancels.Append(ctx, post.GroupID, id); err != nil {
				return err
			}
			if err := posts.Delete(ctx, id); err != nil {
				return err
			}
			if err := marks.DeleteForPost(ctx, id); err != nil {
				return err
			}
			if err := posts.DeleteReplyEdgeByChild(ctx, id); err != nil {
				return err
			}
		}
		return nil
	})
}
