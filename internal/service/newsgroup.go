package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/newsboard/internal/model"
	"github.com/d60-Lab/newsboard/internal/repository"
	"github.com/d60-Lab/newsboard/pkg/logger"
)

var (
	ErrGroupExists      = errors.New("newsgroup already exists")
	ErrGroupNotFound    = errors.New("newsgroup does not exist")
	ErrInvalidLevel     = errors.New("invalid anonymous access level")
	ErrPermissionDenied = errors.New("permission denied")
)

// NewsgroupService 帖子组生命周期与增量同步查询
type NewsgroupService interface {
	// CreateGroup 建组：根帖 -> 组行 -> 回填根帖 group_id，单事务内完成
	CreateGroup(ctx context.Context, name, anonymousLevel string) (*model.Newsgroup, error)
	GroupByName(ctx context.Context, name string) (*model.Newsgroup, error)
	GroupByID(ctx context.Context, id int64) (*model.Newsgroup, error)
	GroupExists(ctx context.Context, name string) (bool, error)
	GroupNames(ctx context.Context) ([]string, error)

	// NewPost 对组根帖回帖，即发新帖
	NewPost(ctx context.Context, groupID int64, author, title, body string) (int64, error)
	// Reply 插入帖子行与邻接行，单事务内完成
	Reply(ctx context.Context, parentID int64, author, title, body string) (int64, error)
	GetPost(ctx context.Context, id int64) (*model.Post, error)
	// VisibleParentID 返回展示用父帖 ID；父为组根（或本身是根）时返回 0
	VisibleParentID(ctx context.Context, postID int64) (int64, error)

	TopLevelPosts(ctx context.Context, groupID int64) ([]*model.Post, error)
	TopLevelPostsPage(ctx context.Context, groupID int64, page int) ([]*model.Post, error)
	// NewPostsSince 返回组内 post_date > after 的帖子（根帖除外）
	NewPostsSince(ctx context.Context, groupID, after int64) ([]*model.Post, error)
	CancellationsSince(ctx context.Context, groupID, afterID int64) ([]int64, error)
	LatestCancellationID(ctx context.Context) (int64, error)

	MarkRead(ctx context.Context, identity string, postID int64, read bool) error
	// DeletePost 级联删除子树；非管理员须为子树内全部帖子的作者
	DeletePost(ctx context.Context, postID int64, identity string, admin bool) error
	// FullDelete 整组拆除：删整棵树、权限绑定、墓碑、组行
	FullDelete(ctx context.Context, groupID int64) error
}

type newsgroupService struct {
	db      *gorm.DB
	groups  repository.GroupRepository
	posts   repository.PostRepository
	cancels repository.CancellationRepository
	marks   repository.ReadMarkRepository
	tree    TreeService
	access  AccessControl
}

func NewNewsgroupService(
	db *gorm.DB,
	groups repository.GroupRepository,
	posts repository.PostRepository,
	cancels repository.CancellationRepository,
	marks repository.ReadMarkRepository,
	tree TreeService,
	access AccessControl,
) NewsgroupService {
	return &newsgroupService{
		db:      db,
		groups:  groups,
		posts:   posts,
		cancels: cancels,
		marks:   marks,
		tree:    tree,
		access:  access,
	}
}

func (s *newsgroupService) CreateGroup(ctx context.Context, name, anonymousLevel string) (*model.Newsgroup, error) {
	if !s.access.ValidLevel(anonymousLevel) {
		return nil, ErrInvalidLevel
	}
	exists, err := s.groups.Exists(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrGroupExists
	}

	var group *model.Newsgroup
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		posts := s.posts.WithTx(tx)
		groups := s.groups.WithTx(tx)

		// 先建根帖，group_id 暂为 0 哨兵
		root := &model.Post{
			Author:   model.SystemAuthor,
			PostDate: time.Now().Unix(),
			Title:    fmt.Sprintf("This is the root-level post for %s.", name),
		}
		if err := posts.Create(ctx, root); err != nil {
			return err
		}
		group = &model.Newsgroup{Name: name, RootPostID: root.ID, AnonymousLevel: anonymousLevel}
		if err := groups.Create(ctx, group); err != nil {
			return err
		}
		return posts.SetGroupID(ctx, root.ID, group.ID)
	})
	if err != nil {
		return nil, err
	}
	logger.Info("newsgroup created",
		zap.String("name", name), zap.Int64("group_id", group.ID), zap.Int64("root_post_id", group.RootPostID))
	return group, nil
}

func (s *newsgroupService) GroupByName(ctx context.Context, name string) (*model.Newsgroup, error) {
	g, err := s.groups.GetByName(ctx, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGroupNotFound
	}
	return g, err
}

func (s *newsgroupService) GroupByID(ctx context.Context, id int64) (*model.Newsgroup, error) {
	g, err := s.groups.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGroupNotFound
	}
	return g, err
}

func (s *newsgroupService) GroupExists(ctx context.Context, name string) (bool, error) {
	return s.groups.Exists(ctx, name)
}

func (s *newsgroupService) GroupNames(ctx context.Context) ([]string, error) {
	return s.groups.Names(ctx)
}

func (s *newsgroupService) NewPost(ctx context.Context, groupID int64, author, title, body string) (int64, error) {
	g, err := s.GroupByID(ctx, groupID)
	if err != nil {
		return 0, err
	}
	return s.Reply(ctx, g.RootPostID, author, title, body)
}

func (s *newsgroupService) Reply(ctx context.Context, parentID int64, author, title, body string) (int64, error) {
	parent, err := s.posts.Get(ctx, parentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrPostNotFound
	}
	if err != nil {
		return 0, err
	}

	post := &model.Post{
		GroupID:  parent.GroupID,
		Author:   author,
		PostDate: time.Now().Unix(),
		Title:    title,
		Body:     body,
	}
	// 帖子行与邻接行必须同事务落地，否则悬空帖等价于丢数据
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		posts := s.posts.WithTx(tx)
		if err := posts.Create(ctx, post); err != nil {
			return err
		}
		return posts.CreateReplyEdge(ctx, parentID, post.ID)
	})
	if err != nil {
		return 0, err
	}
	return post.ID, nil
}

func (s *newsgroupService) GetPost(ctx context.Context, id int64) (*model.Post, error) {
	post, err := s.posts.Get(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	return post, err
}

func (s *newsgroupService) VisibleParentID(ctx context.Context, postID int64) (int64, error) {
	parentID, err := s.posts.ParentID(ctx, postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil // 本身就是根帖
	}
	if err != nil {
		return 0, err
	}
	// 父帖自己没有父说明父是组根，不对外展示
	if _, err := s.posts.ParentID(ctx, parentID); errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	return parentID, nil
}

func (s *newsgroupService) TopLevelPosts(ctx context.Context, groupID int64) ([]*model.Post, error) {
	g, err := s.GroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return s.tree.Children(ctx, g.RootPostID)
}

func (s *newsgroupService) TopLevelPostsPage(ctx context.Context, groupID int64, page int) ([]*model.Post, error) {
	g, err := s.GroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return s.tree.ChildrenPage(ctx, g.RootPostID, page)
}

func (s *newsgroupService) NewPostsSince(ctx context.Context, groupID, after int64) ([]*model.Post, error) {
	g, err := s.GroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return s.posts.ListGroupSince(ctx, g.ID, after, g.RootPostID)
}

func (s *newsgroupService) CancellationsSince(ctx context.Context, groupID, afterID int64) ([]int64, error) {
	if _, err := s.GroupByID(ctx, groupID); err != nil {
		return nil, err
	}
	return s.cancels.ListSince(ctx, groupID, afterID)
}

func (s *newsgroupService) LatestCancellationID(ctx context.Context) (int64, error) {
	return s.cancels.LatestID(ctx)
}

func (s *newsgroupService) MarkRead(ctx context.Context, identity string, postID int64, read bool) error {
	if _, err := s.GetPost(ctx, postID); err != nil {
		return err
	}
	return s.marks.Set(ctx, identity, postID, read)
}

func (s *newsgroupService) DeletePost(ctx context.Context, postID int64, identity string, admin bool) error {
	if _, err := s.GetPost(ctx, postID); err != nil {
		return err
	}
	if !admin {
		sole, err := s.tree.SubtreeAuthoredBy(ctx, postID, identity)
		if err != nil {
			return err
		}
		if !sole {
			logger.Warn("post deletion denied",
				zap.Int64("post_id", postID), zap.String("identity", identity))
			return ErrPermissionDenied
		}
	}
	return s.tree.RecursiveDelete(ctx, postID)
}

func (s *newsgroupService) FullDelete(ctx context.Context, groupID int64) error {
	g, err := s.GroupByID(ctx, groupID)
	if err != nil {
		return err
	}
	// 树删除先行完成；中途崩溃只留下空树的组，可当作零帖组
	if err := s.tree.RecursiveDelete(ctx, g.RootPostID); err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.access.DeleteGroupBindings(ctx, g.ID); err != nil {
			return err
		}
		if err := s.cancels.WithTx(tx).DeleteForGroup(ctx, g.ID); err != nil {
			return err
		}
		return s.groups.WithTx(tx).Delete(ctx, g.ID)
	})
	if err != nil {
		return err
	}
	logger.Info("newsgroup deleted", zap.String("name", g.Name), zap.Int64("group_id", g.ID))
	return nil
}
