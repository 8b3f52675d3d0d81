package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/d60-Lab/newsboard/config"
	"github.com/d60-Lab/newsboard/internal/repository"
	"github.com/d60-Lab/newsboard/internal/service"
	"github.com/d60-Lab/newsboard/pkg/database"
)

func must[T any](v T, err error) T { if err != nil { panic(err) }; return v }

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 { return 0 }
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 { k = 0 }
	if k >= len(xs) { k = len(xs)-1 }
	return xs[k]
}

func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))

	postRepo := repository.NewPostRepository(db)
	cancelRepo := repository.NewCancellationRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	markRepo := repository.NewReadMarkRepository(db)
	access := service.NewAccessControl()
	tree := service.NewTreeService(db, postRepo, cancelRepo, markRepo)
	svc := service.NewNewsgroupService(db, groupRepo, postRepo, cancelRepo, markRepo, tree, access)

	ctx := context.Background()

	// params
	N := 5000       // replies to insert
	FANOUT := 8     // children per node when growing the tree
	PAGES := 200    // paginated reads to sample
	if s := os.Getenv("N"); s != "" { if v, e := strconv.Atoi(s); e == nil && v > 0 { N = v } }
	if s := os.Getenv("FANOUT"); s != "" { if v, e := strconv.Atoi(s); e == nil && v > 0 { FANOUT = v } }
	if s := os.Getenv("PAGES"); s != "" { if v, e := strconv.Atoi(s); e == nil && v > 0 { PAGES = v } }

	name := fmt.Sprintf("bench.tree.%d", time.Now().Unix())
	g := must(svc.CreateGroup(ctx, name, service.LevelRead))

	// grow a wide tree: replies attach to random existing nodes, biased to recent ones
	ids := []int64{g.RootPostID}
	writeRecs := make([]time.Duration, 0, N)
	t0 := time.Now()
	for i := 0; i < N; i++ {
		lo := 0
		if len(ids) > FANOUT {
			lo = len(ids) - FANOUT
		}
		parent := ids[lo+rand.Intn(len(ids)-lo)]
		st := time.Now()
		id := must(svc.Reply(ctx, parent, "bench", fmt.Sprintf("post %d", i), "body"))
		writeRecs = append(writeRecs, time.Since(st))
		ids = append(ids, id)
	}
	writeWall := time.Since(t0)

	// paginated top-level reads
	readRecs := make([]time.Duration, 0, PAGES)
	for i := 0; i < PAGES; i++ {
		st := time.Now()
		_ = must(svc.TopLevelPostsPage(ctx, g.ID, i%3))
		readRecs = append(readRecs, time.Since(st))
	}

	// subtree authorship scan over the whole tree
	st := time.Now()
	sole := must(tree.SubtreeAuthoredBy(ctx, ids[1], "bench"))
	authorScan := time.Since(st)

	// cascading delete of the first reply's subtree
	st = time.Now()
	if err := tree.RecursiveDelete(ctx, ids[1]); err != nil { panic(err) }
	delWall := time.Since(st)

	fmt.Printf("tree bench: N=%d FANOUT=%d\n", N, FANOUT)
	fmt.Printf("  reply     wall=%v p50=%v p99=%v\n", writeWall, pct(writeRecs, 0.50), pct(writeRecs, 0.99))
	fmt.Printf("  page read p50=%v p99=%v\n", pct(readRecs, 0.50), pct(readRecs, 0.99))
	fmt.Printf("  authorship scan=%v sole=%v\n", authorScan, sole)
	fmt.Printf("  recursive delete subtree=%v\n", delWall)
	fmt.Printf("  latest cancellation id=%d\n", must(svc.LatestCancellationID(ctx)))

	// teardown
	if err := svc.FullDelete(ctx, g.ID); err != nil { panic(err) }
}
