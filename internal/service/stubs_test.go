package service

import (
	"context"
	"testing"
	"time"

	"chatter/internal/models"
	"chatter/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type userRepoStub struct {
	createFn        func(context.Context, *models.User) error
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:  func(context.Context, *models.User) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByUsernameFn: func(context.Context, string) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
}

type postRepoStub struct {
	createFn              func(context.Context, *models.Post) error
	getByIDFn             func(context.Context, uint) (*models.Post, error)
	getByIDCachedFn       func(context.Context, uint) (*models.Post, error)
	listByUserFn          func(context.Context, uint, int, int) ([]*models.Post, error)
	updateFn              func(context.Context, *models.Post) error
	markDeletedFn         func(context.Context, uint, time.Time) (bool, error)
	adjustCommentCountFn  func(context.Context, uint, int) error
	adjustReactionCountFn func(context.Context, uint, models.ReactionType, int) error
	saveCountersFn        func(context.Context, *models.Post) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) GetByIDCached(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDCachedFn(ctx, id)
}
func (s *postRepoStub) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.listByUserFn(ctx, userID, limit, offset)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) MarkDeleted(ctx context.Context, id uint, at time.Time) (bool, error) {
	return s.markDeletedFn(ctx, id, at)
}
func (s *postRepoStub) AdjustCommentCount(ctx context.Context, id uint, delta int) error {
	return s.adjustCommentCountFn(ctx, id, delta)
}
func (s *postRepoStub) AdjustReactionCount(ctx context.Context, id uint, t models.ReactionType, delta int) error {
	return s.adjustReactionCountFn(ctx, id, t, delta)
}
func (s *postRepoStub) SaveCounters(ctx context.Context, post *models.Post) error {
	return s.saveCountersFn(ctx, post)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(context.Context, *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		getByIDCachedFn: func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id}, nil
		},
		listByUserFn:          func(context.Context, uint, int, int) ([]*models.Post, error) { return nil, nil },
		updateFn:              func(context.Context, *models.Post) error { return nil },
		markDeletedFn:         func(context.Context, uint, time.Time) (bool, error) { return true, nil },
		adjustCommentCountFn:  func(context.Context, uint, int) error { return nil },
		adjustReactionCountFn: func(context.Context, uint, models.ReactionType, int) error { return nil },
		saveCountersFn:        func(context.Context, *models.Post) error { return nil },
	}
}

type commentRepoStub struct {
	createFn            func(context.Context, *models.Comment) error
	getByIDFn           func(context.Context, uint) (*models.Comment, error)
	listLiveByPostFn    func(context.Context, uint) ([]*models.Comment, error)
	updateFn            func(context.Context, *models.Comment) error
	markDeletedFn       func(context.Context, uint, time.Time) (bool, error)
	markDeletedByPostFn func(context.Context, uint, time.Time) (int64, error)
	countLiveByPostFn   func(context.Context, uint) (int64, error)
	adjustReplyCountFn  func(context.Context, uint, int) error
	saveReplyCountFn    func(context.Context, *models.Comment) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListLiveByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listLiveByPostFn(ctx, postID)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) MarkDeleted(ctx context.Context, id uint, at time.Time) (bool, error) {
	return s.markDeletedFn(ctx, id, at)
}
func (s *commentRepoStub) MarkDeletedByPost(ctx context.Context, postID uint, at time.Time) (int64, error) {
	return s.markDeletedByPostFn(ctx, postID, at)
}
func (s *commentRepoStub) CountLiveByPost(ctx context.Context, postID uint) (int64, error) {
	return s.countLiveByPostFn(ctx, postID)
}
func (s *commentRepoStub) AdjustReplyCount(ctx context.Context, id uint, delta int) error {
	return s.adjustReplyCountFn(ctx, id, delta)
}
func (s *commentRepoStub) SaveReplyCount(ctx context.Context, comment *models.Comment) error {
	return s.saveReplyCountFn(ctx, comment)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(context.Context, *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id}, nil
		},
		listLiveByPostFn:    func(context.Context, uint) ([]*models.Comment, error) { return nil, nil },
		updateFn:            func(context.Context, *models.Comment) error { return nil },
		markDeletedFn:       func(context.Context, uint, time.Time) (bool, error) { return true, nil },
		markDeletedByPostFn: func(context.Context, uint, time.Time) (int64, error) { return 0, nil },
		countLiveByPostFn:   func(context.Context, uint) (int64, error) { return 0, nil },
		adjustReplyCountFn:  func(context.Context, uint, int) error { return nil },
		saveReplyCountFn:    func(context.Context, *models.Comment) error { return nil },
	}
}

type replyRepoStub struct {
	createFn               func(context.Context, *models.Reply) error
	getByIDFn              func(context.Context, uint) (*models.Reply, error)
	listLiveByCommentFn    func(context.Context, uint) ([]*models.Reply, error)
	updateFn               func(context.Context, *models.Reply) error
	markDeletedFn          func(context.Context, uint, time.Time) (bool, error)
	markDeletedByCommentFn func(context.Context, uint, time.Time) (int64, error)
	markDeletedByPostFn    func(context.Context, uint, time.Time) (int64, error)
	countLiveByCommentFn   func(context.Context, uint) (int64, error)
}

func (s *replyRepoStub) Create(ctx context.Context, reply *models.Reply) error {
	return s.createFn(ctx, reply)
}
func (s *replyRepoStub) GetByID(ctx context.Context, id uint) (*models.Reply, error) {
	return s.getByIDFn(ctx, id)
}
func (s *replyRepoStub) ListLiveByComment(ctx context.Context, commentID uint) ([]*models.Reply, error) {
	return s.listLiveByCommentFn(ctx, commentID)
}
func (s *replyRepoStub) Update(ctx context.Context, reply *models.Reply) error {
	return s.updateFn(ctx, reply)
}
func (s *replyRepoStub) MarkDeleted(ctx context.Context, id uint, at time.Time) (bool, error) {
	return s.markDeletedFn(ctx, id, at)
}
func (s *replyRepoStub) MarkDeletedByComment(ctx context.Context, commentID uint, at time.Time) (int64, error) {
	return s.markDeletedByCommentFn(ctx, commentID, at)
}
func (s *replyRepoStub) MarkDeletedByPost(ctx context.Context, postID uint, at time.Time) (int64, error) {
	return s.markDeletedByPostFn(ctx, postID, at)
}
func (s *replyRepoStub) CountLiveByComment(ctx context.Context, commentID uint) (int64, error) {
	return s.countLiveByCommentFn(ctx, commentID)
}

func noopReplyRepo() *replyRepoStub {
	return &replyRepoStub{
		createFn: func(context.Context, *models.Reply) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Reply, error) {
			return &models.Reply{ID: id}, nil
		},
		listLiveByCommentFn:    func(context.Context, uint) ([]*models.Reply, error) { return nil, nil },
		updateFn:               func(context.Context, *models.Reply) error { return nil },
		markDeletedFn:          func(context.Context, uint, time.Time) (bool, error) { return true, nil },
		markDeletedByCommentFn: func(context.Context, uint, time.Time) (int64, error) { return 0, nil },
		markDeletedByPostFn:    func(context.Context, uint, time.Time) (int64, error) { return 0, nil },
		countLiveByCommentFn:   func(context.Context, uint) (int64, error) { return 0, nil },
	}
}

type reactionRepoStub struct {
	createFn                 func(context.Context, *models.Reaction) error
	getLiveByPostAndUserFn   func(context.Context, uint, uint) (*models.Reaction, error)
	listLiveByPostFn         func(context.Context, uint) ([]*models.Reaction, error)
	markDeletedFn            func(context.Context, uint, time.Time) (bool, error)
	markDeletedByPostFn      func(context.Context, uint, time.Time) (int64, error)
	countLiveByPostAndTypeFn func(context.Context, uint, models.ReactionType) (int64, error)
}

func (s *reactionRepoStub) Create(ctx context.Context, reaction *models.Reaction) error {
	return s.createFn(ctx, reaction)
}
func (s *reactionRepoStub) GetLiveByPostAndUser(ctx context.Context, postID, userID uint) (*models.Reaction, error) {
	return s.getLiveByPostAndUserFn(ctx, postID, userID)
}
func (s *reactionRepoStub) ListLiveByPost(ctx context.Context, postID uint) ([]*models.Reaction, error) {
	return s.listLiveByPostFn(ctx, postID)
}
func (s *reactionRepoStub) MarkDeleted(ctx context.Context, id uint, at time.Time) (bool, error) {
	return s.markDeletedFn(ctx, id, at)
}
func (s *reactionRepoStub) MarkDeletedByPost(ctx context.Context, postID uint, at time.Time) (int64, error) {
	return s.markDeletedByPostFn(ctx, postID, at)
}
func (s *reactionRepoStub) CountLiveByPostAndType(ctx context.Context, postID uint, t models.ReactionType) (int64, error) {
	return s.countLiveByPostAndTypeFn(ctx, postID, t)
}

func noopReactionRepo() *reactionRepoStub {
	return &reactionRepoStub{
		createFn: func(context.Context, *models.Reaction) error { return nil },
		getLiveByPostAndUserFn: func(context.Context, uint, uint) (*models.Reaction, error) {
			return nil, nil
		},
		listLiveByPostFn:    func(context.Context, uint) ([]*models.Reaction, error) { return nil, nil },
		markDeletedFn:       func(context.Context, uint, time.Time) (bool, error) { return true, nil },
		markDeletedByPostFn: func(context.Context, uint, time.Time) (int64, error) { return 0, nil },
		countLiveByPostAndTypeFn: func(context.Context, uint, models.ReactionType) (int64, error) {
			return 0, nil
		},
	}
}

// passthroughTx runs the function against the ambient store with no
// transaction semantics; stub-level tests assert on the calls instead.
type passthroughTx struct {
	store repository.Store
}

func (t passthroughTx) WithTx(_ context.Context, fn func(repository.Store) error) error {
	return fn(t.store)
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.True(t, models.IsCode(err, code), "expected %s, got %v", code, err)
}
