package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"driftline/internal/model"
)

// Function-field mocks for the repository interfaces. Each test overrides
// only the methods it expects to be called; anything else falls through to
// a safe default.

// mockTxRunner hands the closure a nil transaction; the repository mocks
// never touch it. A non-nil runErr short-circuits without running anything.
type mockTxRunner struct {
	runErr error
}

func (m *mockTxRunner) RunTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	if m.runErr != nil {
		return m.runErr
	}
	return fn(nil)
}

type mockUserRepository struct {
	createFn           func(ctx context.Context, user *model.User) error
	getByIDFn          func(ctx context.Context, id int64) (*model.User, error)
	getByNicknameFn    func(ctx context.Context, nickname string) (*model.User, error)
	existsByNicknameFn func(ctx context.Context, nickname string) (bool, error)
	updateFn           func(ctx context.Context, user *model.User) error
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByNickname(ctx context.Context, nickname string) (*model.User, error) {
	if m.getByNicknameFn != nil {
		return m.getByNicknameFn(ctx, nickname)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	if m.existsByNicknameFn != nil {
		return m.existsByNicknameFn(ctx, nickname)
	}
	return false, nil
}

func (m *mockUserRepository) Update(ctx context.Context, user *model.User) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) Delete(ctx context.Context, tx *sqlx.Tx, userID int64) error {
	return nil
}

type mockFollowRepository struct {
	createFn       func(ctx context.Context, followerID, followedID int64) (bool, error)
	deleteFn       func(ctx context.Context, followerID, followedID int64) (bool, error)
	existsFn       func(ctx context.Context, followerID, followedID int64) (bool, error)
	followingIDsFn func(ctx context.Context, userID int64) ([]int64, error)
	followerIDsFn  func(ctx context.Context, userID int64) ([]int64, error)

	createCalls int
	deleteCalls int
}

func (m *mockFollowRepository) Create(ctx context.Context, followerID, followedID int64) (bool, error) {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, followerID, followedID)
	}
	return true, nil
}

func (m *mockFollowRepository) Delete(ctx context.Context, followerID, followedID int64) (bool, error) {
	m.deleteCalls++
	if m.deleteFn != nil {
		return m.deleteFn(ctx, followerID, followedID)
	}
	return true, nil
}

func (m *mockFollowRepository) Exists(ctx context.Context, followerID, followedID int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, followerID, followedID)
	}
	return false, nil
}

func (m *mockFollowRepository) FollowingIDs(ctx context.Context, userID int64) ([]int64, error) {
	if m.followingIDsFn != nil {
		return m.followingIDsFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockFollowRepository) FollowerIDs(ctx context.Context, userID int64) ([]int64, error) {
	if m.followerIDsFn != nil {
		return m.followerIDsFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockFollowRepository) DeleteAllForUser(ctx context.Context, tx *sqlx.Tx, userID int64) error {
	return nil
}

type mockPostRepository struct {
	createFn       func(ctx context.Context, post *model.Post) error
	getByIDFn      func(ctx context.Context, postID int64) (*model.Post, error)
	existsFn       func(ctx context.Context, postID int64) (bool, error)
	getByAuthorsFn func(ctx context.Context, authorIDs []int64) ([]model.Post, error)
}

func (m *mockPostRepository) Create(ctx context.Context, post *model.Post) error {
	if m.createFn != nil {
		return m.createFn(ctx, post)
	}
	return nil
}

func (m *mockPostRepository) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, postID)
	}
	return nil, model.ErrPostNotFound
}

func (m *mockPostRepository) GetForUpdate(ctx context.Context, tx *sqlx.Tx, postID int64) (*model.Post, error) {
	return nil, model.ErrPostNotFound
}

func (m *mockPostRepository) Exists(ctx context.Context, postID int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, postID)
	}
	return false, nil
}

func (m *mockPostRepository) GetByAuthors(ctx context.Context, authorIDs []int64) ([]model.Post, error) {
	if m.getByAuthorsFn != nil {
		return m.getByAuthorsFn(ctx, authorIDs)
	}
	return []model.Post{}, nil
}

func (m *mockPostRepository) IDsByAuthor(ctx context.Context, tx *sqlx.Tx, authorID int64) ([]int64, error) {
	return nil, nil
}

func (m *mockPostRepository) DeleteByIDs(ctx context.Context, tx *sqlx.Tx, postIDs []int64) (int64, error) {
	return 0, nil
}

type mockCommentRepository struct {
	getByIDFn         func(ctx context.Context, commentID int64) (*model.Comment, error)
	getForUpdateFn    func(ctx context.Context, commentID int64) (*model.Comment, error)
	existsFn          func(ctx context.Context, commentID int64) (bool, error)
	collectSubtreesFn func(ctx context.Context, rootIDs []int64) ([]int64, error)
	deleteByIDsFn     func(ctx context.Context, ids []int64) (int64, error)

	deletedIDs []int64
}

func (m *mockCommentRepository) Create(ctx context.Context, tx *sqlx.Tx, comment *model.Comment) error {
	return nil
}

func (m *mockCommentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, commentID)
	}
	return nil, model.ErrCommentNotFound
}

func (m *mockCommentRepository) GetForUpdate(ctx context.Context, tx *sqlx.Tx, commentID int64) (*model.Comment, error) {
	if m.getForUpdateFn != nil {
		return m.getForUpdateFn(ctx, commentID)
	}
	return nil, model.ErrCommentNotFound
}

func (m *mockCommentRepository) Exists(ctx context.Context, commentID int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, commentID)
	}
	return false, nil
}

func (m *mockCommentRepository) IDsByTarget(ctx context.Context, tx *sqlx.Tx, target model.TargetRef) ([]int64, error) {
	return nil, nil
}

func (m *mockCommentRepository) IDsByAuthor(ctx context.Context, tx *sqlx.Tx, authorID int64) ([]int64, error) {
	return nil, nil
}

func (m *mockCommentRepository) ListByIDs(ctx context.Context, tx *sqlx.Tx, ids []int64) ([]model.Comment, error) {
	return nil, nil
}

func (m *mockCommentRepository) CollectSubtrees(ctx context.Context, tx *sqlx.Tx, rootIDs []int64) ([]int64, error) {
	if m.collectSubtreesFn != nil {
		return m.collectSubtreesFn(ctx, rootIDs)
	}
	return rootIDs, nil
}

func (m *mockCommentRepository) DeleteByIDs(ctx context.Context, tx *sqlx.Tx, ids []int64) (int64, error) {
	m.deletedIDs = append(m.deletedIDs, ids...)
	if m.deleteByIDsFn != nil {
		return m.deleteByIDsFn(ctx, ids)
	}
	return int64(len(ids)), nil
}

type mockLikeRepository struct {
	createFn          func(ctx context.Context, like *model.Like) error
	getForUpdateFn    func(ctx context.Context, likeID int64) (*model.Like, error)
	deleteFn          func(ctx context.Context, likeID int64) (bool, error)
	deleteByTargetsFn func(ctx context.Context, kind model.TargetKind, targetIDs []int64) (int64, error)

	deleteCalls int
}

func (m *mockLikeRepository) Create(ctx context.Context, tx *sqlx.Tx, like *model.Like) error {
	if m.createFn != nil {
		return m.createFn(ctx, like)
	}
	return nil
}

func (m *mockLikeRepository) GetForUpdate(ctx context.Context, tx *sqlx.Tx, likeID int64) (*model.Like, error) {
	if m.getForUpdateFn != nil {
		return m.getForUpdateFn(ctx, likeID)
	}
	return nil, model.ErrLikeNotFound
}

func (m *mockLikeRepository) Delete(ctx context.Context, tx *sqlx.Tx, likeID int64) (bool, error) {
	m.deleteCalls++
	if m.deleteFn != nil {
		return m.deleteFn(ctx, likeID)
	}
	return false, nil
}

func (m *mockLikeRepository) DeleteByTargets(ctx context.Context, tx *sqlx.Tx, kind model.TargetKind, targetIDs []int64) (int64, error) {
	if m.deleteByTargetsFn != nil {
		return m.deleteByTargetsFn(ctx, kind, targetIDs)
	}
	return 0, nil
}

func (m *mockLikeRepository) ListByUser(ctx context.Context, tx *sqlx.Tx, userID int64) ([]model.Like, error) {
	return nil, nil
}

func (m *mockLikeRepository) DeleteByUser(ctx context.Context, tx *sqlx.Tx, userID int64) (int64, error) {
	return 0, nil
}

type mockCounterRepository struct {
	incrementFn func(ctx context.Context, tx *sqlx.Tx, target model.TargetRef, field model.CounterField, delta int) error
	recountFn   func(ctx context.Context, target model.TargetRef) (model.Counters, error)

	incrementCalls int
}

func (m *mockCounterRepository) Increment(ctx context.Context, tx *sqlx.Tx, target model.TargetRef, field model.CounterField, delta int) error {
	m.incrementCalls++
	if m.incrementFn != nil {
		return m.incrementFn(ctx, tx, target, field, delta)
	}
	return nil
}

func (m *mockCounterRepository) Recount(ctx context.Context, target model.TargetRef) (model.Counters, error) {
	if m.recountFn != nil {
		return m.recountFn(ctx, target)
	}
	return model.Counters{}, nil
}

// testPost builds a post with the fields the ranking tests care about.
func testPost(id, authorID int64, likes int, publishedAt time.Time) model.Post {
	return model.Post{
		ID:          id,
		AuthorID:    authorID,
		Title:       "post",
		Body:        "body",
		PublishedAt: publishedAt,
		LikeCount:   likes,
	}
}
