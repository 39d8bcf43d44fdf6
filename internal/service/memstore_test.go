package service

import (
	"context"
	"sync"
	"time"

	"chatter/internal/models"
	"chatter/internal/repository"

	"gorm.io/gorm"
)

// memWorld is an in-memory database for scenario tests. It mirrors the
// repository semantics that matter to the services: compare-and-set delete
// transitions, live-row batch cascades, and arithmetic counter adjustments.
// Its TxRunner snapshots state before the function runs and restores it on
// error, so rollback behavior can be asserted too.
type memWorld struct {
	mu        sync.Mutex
	users     map[uint]*models.User
	posts     map[uint]*models.Post
	comments  map[uint]*models.Comment
	replies   map[uint]*models.Reply
	reactions map[uint]*models.Reaction
	nextID    uint
}

func newMemWorld() *memWorld {
	return &memWorld{
		users:     map[uint]*models.User{},
		posts:     map[uint]*models.Post{},
		comments:  map[uint]*models.Comment{},
		replies:   map[uint]*models.Reply{},
		reactions: map[uint]*models.Reaction{},
	}
}

func (w *memWorld) id() uint {
	w.nextID++
	return w.nextID
}

func (w *memWorld) store() repository.Store {
	return repository.Store{
		Users:     &memUsers{w},
		Posts:     &memPosts{w},
		Comments:  &memComments{w},
		Replies:   &memReplies{w},
		Reactions: &memReactions{w},
	}
}

func (w *memWorld) tx() repository.TxRunner {
	return &memTx{w}
}

type memTx struct {
	w *memWorld
}

func (t *memTx) WithTx(_ context.Context, fn func(repository.Store) error) error {
	t.w.mu.Lock()
	users := copyMap(t.w.users)
	posts := copyMap(t.w.posts)
	comments := copyMap(t.w.comments)
	replies := copyMap(t.w.replies)
	reactions := copyMap(t.w.reactions)
	t.w.mu.Unlock()

	if err := fn(t.w.store()); err != nil {
		t.w.mu.Lock()
		t.w.users = users
		t.w.posts = posts
		t.w.comments = comments
		t.w.replies = replies
		t.w.reactions = reactions
		t.w.mu.Unlock()
		return err
	}
	return nil
}

func copyMap[V any](src map[uint]*V) map[uint]*V {
	dst := make(map[uint]*V, len(src))
	for k, v := range src {
		c := *v
		dst[k] = &c
	}
	return dst
}

// Seed helpers. They insert rows directly; denormalized counters are left to
// the caller so drift scenarios can be set up explicitly.

func (w *memWorld) addUser(roles string) *models.User {
	w.mu.Lock()
	defer w.mu.Unlock()
	u := &models.User{ID: w.id(), Roles: roles}
	w.users[u.ID] = u
	return u
}

func (w *memWorld) addPost(userID uint) *models.Post {
	w.mu.Lock()
	defer w.mu.Unlock()
	p := &models.Post{ID: w.id(), UserID: userID, Description: "post"}
	w.posts[p.ID] = p
	return p
}

func (w *memWorld) addComment(postID, userID uint) *models.Comment {
	w.mu.Lock()
	defer w.mu.Unlock()
	c := &models.Comment{ID: w.id(), PostID: postID, UserID: userID, Text: "comment"}
	w.comments[c.ID] = c
	return c
}

func (w *memWorld) addReply(commentID, userID uint) *models.Reply {
	w.mu.Lock()
	defer w.mu.Unlock()
	r := &models.Reply{ID: w.id(), CommentID: commentID, UserID: userID, Text: "reply"}
	w.replies[r.ID] = r
	return r
}

func (w *memWorld) addReaction(postID, userID uint, t models.ReactionType) *models.Reaction {
	w.mu.Lock()
	defer w.mu.Unlock()
	r := &models.Reaction{ID: w.id(), PostID: postID, UserID: userID, Type: t}
	w.reactions[r.ID] = r
	return r
}

func (w *memWorld) post(id uint) models.Post {
	w.mu.Lock()
	defer w.mu.Unlock()
	return *w.posts[id]
}

func (w *memWorld) comment(id uint) models.Comment {
	w.mu.Lock()
	defer w.mu.Unlock()
	return *w.comments[id]
}

func (w *memWorld) reply(id uint) models.Reply {
	w.mu.Lock()
	defer w.mu.Unlock()
	return *w.replies[id]
}

type memUsers struct{ w *memWorld }

func (m *memUsers) Create(_ context.Context, user *models.User) error {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	user.ID = m.w.id()
	c := *user
	m.w.users[user.ID] = &c
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id uint) (*models.User, error) {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	u, ok := m.w.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *u
	return &c, nil
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	for _, u := range m.w.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type memPosts struct{ w *memWorld }

func (m *memPosts) Create(_ context.Context, post *models.Post) error {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	post.ID = m.w.id()
	c := *post
	m.w.posts[post.ID] = &c
	return nil
}

func (m *memPosts) GetByID(_ context.Context, id uint) (*models.Post, error) {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	p, ok := m.w.posts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *p
	return &c, nil
}

func (m *memPosts) GetByIDCached(ctx context.Context, id uint) (*models.Post, error) {
	return m.GetByID(ctx, id)
}

func (m *memPosts) ListByUser(_ context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	var out []*models.Post
	for _, p := range m.w.posts {
		if p.UserID == userID && !p.IsDeleted {
			c := *p
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *memPosts) Update(_ context.Context, post *models.Post) error {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	c := *post
	m.w.posts[post.ID] = &c
	return nil
}

func (m *memPosts) MarkDeleted(_ context.Context, id uint, at time.Time) (bool, error) {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	p, ok := m.w.posts[id]
	if !ok || p.IsDeleted {
		return false, nil
	}
	p.IsDeleted = true
	p.DeletedOn = &at
	return true, nil
}

func (m *memPosts) AdjustCommentCount(_ context.Context, id uint, delta int) error {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	m.w.posts[id].CommentCount += delta
	return nil
}

func (m *memPosts) AdjustReactionCount(_ context.Context, id uint, t models.ReactionType, delta int) error {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	m.w.posts[id].AddReactionDelta(t, delta)
	return nil
}

func (m *memPosts) SaveCounters(_ context.Context, post *models.Post) error {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	p := m.w.posts[post.ID]
	p.CommentCount = post.CommentCount
	p.LikeCount = post.LikeCount
	p.LoveCount = post.LoveCount
	p.SadCount = post.SadCount
	p.AngryCount = post.AngryCount
	return nil
}

type memComments struct{ w *memWorld }

func (m *memComments) Create(_ context.Context, comment *models.Comment) error {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	comment.ID = m.w.id()
	c := *comment
	m.w.comments[comment.ID] = &c
	return nil
}

func (m *memComments) GetByID(_ context.Context, id uint) (*models.Comment, error) {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	cm, ok := m.w.comments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *cm
	return &c, nil
}

func (m *memComments) ListLiveByPost(_ context.Context, postID uint) ([]*models.Comment, error) {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	var out []*models.Comment
	for _, cm := range m.w.comments {
		if cm.PostID == postID && !cm.IsDeleted {
			c := *cm
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *memComments) Update(_ context.Context, comment *models.Comment) error {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	c := *comment
	m.w.comments[comment.ID] = &c
	return nil
}

func (m *memComments) MarkDeleted(_ context.Context, id uint, at time.Time) (bool, error) {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	cm, ok := m.w.comments[id]
	if !ok || cm.IsDeleted {
		return false, nil
	}
	cm.IsDeleted = true
	cm.DeletedOn = &at
	return true, nil
}

func (m *memComments) MarkDeletedByPost(_ context.Context, postID uint, at time.Time) (int64, error) {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	var n int64
	for _, cm := range m.w.comments {
		if cm.PostID == postID && !cm.IsDeleted {
			cm.IsDeleted = true
			cm.DeletedOn = &at
			n++
		}
	}
	return n, nil
}

func (m *memComments) CountLiveByPost(_ context.Context, postID uint) (int64, error) {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	var n int64
	for _, cm := range m.w.comments {
		if cm.PostID == postID && !cm.IsDeleted {
			n++
		}
	}
	return n, nil
}

func (m *memComments) AdjustReplyCount(_ context.Context, id uint, delta int) error {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	m.w.comments[id].ReplyCount += delta
	return nil
}

func (m *memComments) SaveReplyCount(_ context.Context, comment *models.Comment) error {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	m.w.comments[comment.ID].ReplyCount = comment.ReplyCount
	return nil
}

type memReplies struct{ w *memWorld }

func (m *memReplies) Create(_ context.Context, reply *models.Reply) error {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	reply.ID = m.w.id()
	c := *reply
	m.w.replies[reply.ID] = &c
	return nil
}

func (m *memReplies) GetByID(_ context.Context, id uint) (*models.Reply, error) {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	r, ok := m.w.replies[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *r
	return &c, nil
}

func (m *memReplies) ListLiveByComment(_ context.Context, commentID uint) ([]*models.Reply, error) {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	var out []*models.Reply
	for _, r := range m.w.replies {
		if r.CommentID == commentID && !r.IsDeleted {
			c := *r
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *memReplies) Update(_ context.Context, reply *models.Reply) error {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	c := *reply
	m.w.replies[reply.ID] = &c
	return nil
}

func (m *memReplies) MarkDeleted(_ context.Context, id uint, at time.Time) (bool, error) {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	r, ok := m.w.replies[id]
	if !ok || r.IsDeleted {
		return false, nil
	}
	r.IsDeleted = true
	r.DeletedOn = &at
	return true, nil
}

func (m *memReplies) MarkDeletedByComment(_ context.Context, commentID uint, at time.Time) (int64, error) {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	var n int64
	for _, r := range m.w.replies {
		if r.CommentID == commentID && !r.IsDeleted {
			r.IsDeleted = true
			r.DeletedOn = &at
			n++
		}
	}
	return n, nil
}

func (m *memReplies) MarkDeletedByPost(_ context.Context, postID uint, at time.Time) (int64, error) {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	commentIDs := map[uint]bool{}
	for _, cm := range m.w.comments {
		if cm.PostID == postID {
			commentIDs[cm.ID] = true
		}
	}
	var n int64
	for _, r := range m.w.replies {
		if commentIDs[r.CommentID] && !r.IsDeleted {
			r.IsDeleted = true
			r.DeletedOn = &at
			n++
		}
	}
	return n, nil
}

func (m *memReplies) CountLiveByComment(_ context.Context, commentID uint) (int64, error) {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	var n int64
	for _, r := range m.w.replies {
		if r.CommentID == commentID && !r.IsDeleted {
			n++
		}
	}
	return n, nil
}

type memReactions struct{ w *memWorld }

func (m *memReactions) Create(_ context.Context, reaction *models.Reaction) error {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	reaction.ID = m.w.id()
	c := *reaction
	m.w.reactions[reaction.ID] = &c
	return nil
}

func (m *memReactions) GetLiveByPostAndUser(_ context.Context, postID, userID uint) (*models.Reaction, error) {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	for _, r := range m.w.reactions {
		if r.PostID == postID && r.UserID == userID && !r.IsDeleted {
			c := *r
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memReactions) ListLiveByPost(_ context.Context, postID uint) ([]*models.Reaction, error) {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	var out []*models.Reaction
	for _, r := range m.w.reactions {
		if r.PostID == postID && !r.IsDeleted {
			c := *r
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *memReactions) MarkDeleted(_ context.Context, id uint, at time.Time) (bool, error) {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	r, ok := m.w.reactions[id]
	if !ok || r.IsDeleted {
		return false, nil
	}
	r.IsDeleted = true
	r.DeletedOn = &at
	return true, nil
}

func (m *memReactions) MarkDeletedByPost(_ context.Context, postID uint, at time.Time) (int64, error) {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	var n int64
	for _, r := range m.w.reactions {
		if r.PostID == postID && !r.IsDeleted {
			r.IsDeleted = true
			r.DeletedOn = &at
			n++
		}
	}
	return n, nil
}

func (m *memReactions) CountLiveByPostAndType(_ context.Context, postID uint, t models.ReactionType) (int64, error) {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	var n int64
	for _, r := range m.w.reactions {
		if r.PostID == postID && r.Type == t && !r.IsDeleted {
			n++
		}
	}
	return n, nil
}

// newTestServices wires every service over the world.
func newTestServices(w *memWorld) (*PostService, *CommentService, *ReplyService, *ReactionService) {
	store := w.store()
	tx := w.tx()
	attachments := NewAttachmentService(discardMediaStore{}, nil)
	return NewPostService(tx, store, attachments),
		NewCommentService(tx, store, attachments),
		NewReplyService(tx, store),
		NewReactionService(tx, store)
}

type discardMediaStore struct{}

func (discardMediaStore) Put(_ context.Context, name string, _ []byte) (string, error) {
	return "/media/" + name, nil
}
