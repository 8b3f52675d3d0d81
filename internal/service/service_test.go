package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/newsboard/internal/model"
	"github.com/d60-Lab/newsboard/internal/repository"
	"github.com/d60-Lab/newsboard/pkg/database"
)

type fixture struct {
	db      *gorm.DB
	posts   repository.PostRepository
	cancels repository.CancellationRepository
	marks   repository.ReadMarkRepository
	groups  repository.GroupRepository
	tree    TreeService
	svc     NewsgroupService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库只能用单连接，否则每个连接各见一套空表
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	f := &fixture{
		db:      db,
		posts:   repository.NewPostRepository(db),
		cancels: repository.NewCancellationRepository(db),
		marks:   repository.NewReadMarkRepository(db),
		groups:  repository.NewGroupRepository(db),
	}
	access := NewAccessControl()
	f.tree = NewTreeService(db, f.posts, f.cancels, f.marks)
	f.svc = NewNewsgroupService(db, f.groups, f.posts, f.cancels, f.marks, f.tree, access)
	return f
}

// addPost 直接通过仓储造树结点（绕过服务层，便于控制字段）
func (f *fixture) addPost(t *testing.T, groupID, parentID int64, author, title string, date int64) int64 {
	t.Helper()
	ctx := context.Background()
	p := &model.Post{GroupID: groupID, Author: author, PostDate: date, Title: title}
	require.NoError(t, f.posts.Create(ctx, p))
	if parentID != 0 {
		require.NoError(t, f.posts.CreateReplyEdge(ctx, parentID, p.ID))
	}
	return p.ID
}

// backdate 回拨帖子时间，便于测试增量查询
func (f *fixture) backdate(t *testing.T, postID, date int64) {
	t.Helper()
	require.NoError(t, f.db.Model(&model.Post{}).Where("id = ?", postID).
		Update("post_date", date).Error)
}
