package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/newsboard/internal/model"
)

func TestChildrenNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root := f.addPost(t, 1, 0, model.SystemAuthor, "root", 1)
	a := f.addPost(t, 1, root, "alice", "a", 2)
	b := f.addPost(t, 1, root, "bob", "b", 3)
	c := f.addPost(t, 1, root, "carol", "c", 4)

	children, err := f.tree.Children(ctx, root)
	require.NoError(t, err)
	require.Len(t, children, 3)
	assert.Equal(t, []int64{c, b, a}, []int64{children[0].ID, children[1].ID, children[2].ID})
}

func TestChildrenPageBoundaries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root := f.addPost(t, 1, 0, model.SystemAuthor, "root", 1)
	ids := make([]int64, 0, PageSize+10)
	for i := 0; i < PageSize+10; i++ {
		ids = append(ids, f.addPost(t, 1, root, "alice", fmt.Sprintf("p%d", i), int64(i)))
	}

	page0, err := f.tree.ChildrenPage(ctx, root, 0)
	require.NoError(t, err)
	require.Len(t, page0, PageSize)
	// 第 0 页是最近创建的 50 条
	assert.Equal(t, ids[len(ids)-1], page0[0].ID)
	assert.Equal(t, ids[len(ids)-PageSize], page0[PageSize-1].ID)

	page1, err := f.tree.ChildrenPage(ctx, root, 1)
	require.NoError(t, err)
	require.Len(t, page1, 10)
	assert.Equal(t, ids[9], page1[0].ID)
	assert.Equal(t, ids[0], page1[9].ID)

	page2, err := f.tree.ChildrenPage(ctx, root, 2)
	require.NoError(t, err)
	assert.Empty(t, page2)

	_, err = f.tree.ChildrenPage(ctx, root, -1)
	assert.ErrorIs(t, err, ErrInvalidPage)
}

func TestSubtreeAuthoredBy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root := f.addPost(t, 1, 0, model.SystemAuthor, "root", 1)
	top := f.addPost(t, 1, root, "alice", "t1", 2)
	mid := f.addPost(t, 1, top, "alice", "t2", 3)
	f.addPost(t, 1, mid, "alice", "t3", 4)

	sole, err := f.tree.SubtreeAuthoredBy(ctx, top, "alice")
	require.NoError(t, err)
	assert.True(t, sole)

	sole, err = f.tree.SubtreeAuthoredBy(ctx, top, "bob")
	require.NoError(t, err)
	assert.False(t, sole)

	// 深处混入他人回帖即失败：多作者线程实际只能管理员删除
	f.addPost(t, 1, mid, "bob", "intruder", 5)
	sole, err = f.tree.SubtreeAuthoredBy(ctx, top, "alice")
	require.NoError(t, err)
	assert.False(t, sole)

	_, err = f.tree.SubtreeAuthoredBy(ctx, 99999, "alice")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestRecursiveDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root := f.addPost(t, 1, 0, model.SystemAuthor, "root", 1)
	top := f.addPost(t, 1, root, "alice", "t1", 2)
	childA := f.addPost(t, 1, top, "alice", "t2", 3)
	childB := f.addPost(t, 1, top, "alice", "t3", 4)
	grand := f.addPost(t, 1, childA, "alice", "t4", 5)
	keep := f.addPost(t, 1, root, "bob", "other", 6)

	require.NoError(t, f.marks.Set(ctx, "carol", childA, true))

	before, err := f.cancels.LatestID(ctx)
	require.NoError(t, err)

	require.NoError(t, f.tree.RecursiveDelete(ctx, top))

	for _, id := range []int64{top, childA, childB, grand} {
		_, err := f.posts.Get(ctx, id)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound, "post %d should be gone", id)
	}
	// 子树外的帖子不受影响
	_, err = f.posts.Get(ctx, keep)
	require.NoError(t, err)

	// 整棵子树每结点一条墓碑，序号紧随删除前的最新值
	cancelled, err := f.cancels.ListSince(ctx, 1, before)
	require.NoError(t, err)
	require.Len(t, cancelled, 4)
	assert.ElementsMatch(t, []int64{top, childA, childB, grand}, cancelled)
	// 后序处理：父结点的墓碑最后写入
	assert.Equal(t, top, cancelled[len(cancelled)-1])

	latest, err := f.cancels.LatestID(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+4, latest)

	// 已读标记与邻接行随之清理
	read, err := f.marks.IsRead(ctx, "carol", childA)
	require.NoError(t, err)
	assert.False(t, read)
	_, err = f.posts.ParentID(ctx, top)
	assert.Error(t, err)
}

func TestRecursiveDeleteIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root := f.addPost(t, 1, 0, model.SystemAuthor, "root", 1)
	top := f.addPost(t, 1, root, "alice", "t1", 2)
	f.addPost(t, 1, top, "alice", "t2", 3)

	require.NoError(t, f.tree.RecursiveDelete(ctx, top))
	latest, err := f.cancels.LatestID(ctx)
	require.NoError(t, err)

	// 模拟客户端重试：第二次调用不报错也不追加墓碑
	require.NoError(t, f.tree.RecursiveDelete(ctx, top))
	latest2, err := f.cancels.LatestID(ctx)
	require.NoError(t, err)
	assert.Equal(t, latest, latest2)
}
