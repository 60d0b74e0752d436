package repotest

import (
	"context"
	"sort"
	"sync"

	"github.com/anonto42/fotofolio/backend/internal/apperrors"
	"github.com/anonto42/fotofolio/backend/internal/models"
	"github.com/anonto42/fotofolio/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommentRepository is an in-memory repositories.CommentRepository
type CommentRepository struct {
	mu       sync.Mutex
	clock    *Clock
	comments map[primitive.ObjectID]*models.Comment
}

var _ repositories.CommentRepository = (*CommentRepository)(nil)

func NewCommentRepository(clock *Clock) *CommentRepository {
	return &CommentRepository{clock: clock, comments: map[primitive.ObjectID]*models.Comment{}}
}

// Len reports how many comments are stored
func (r *CommentRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.comments)
}

func (r *CommentRepository) CreateComment(_ context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	if comment.Replies == nil {
		comment.Replies = []primitive.ObjectID{}
	}
	if comment.Likes == nil {
		comment.Likes = []string{}
	}
	comment.CreatedAt = r.clock.Now()
	r.comments[comment.ID] = cloneComment(comment)
	return nil
}

func (r *CommentRepository) GetCommentByID(_ context.Context, id primitive.ObjectID) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, apperrors.NotFound("Comment not found")
	}
	return cloneComment(c), nil
}

func (r *CommentRepository) GetCommentsByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[primitive.ObjectID]*models.Comment{}
	for _, id := range ids {
		if c, ok := r.comments[id]; ok {
			out[id] = cloneComment(c)
		}
	}
	return out, nil
}

func (r *CommentRepository) GetTopLevelByPhotoID(_ context.Context, photoID primitive.ObjectID) ([]models.Comment, error) {
	out := r.filter(func(c *models.Comment) bool { return c.PhotoID == photoID && !c.IsReply })
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *CommentRepository) GetRepliesByParentIDs(_ context.Context, parentIDs []primitive.ObjectID) ([]models.Comment, error) {
	parents := map[primitive.ObjectID]bool{}
	for _, id := range parentIDs {
		parents[id] = true
	}
	out := r.filter(func(c *models.Comment) bool { return c.ParentComment != nil && parents[*c.ParentComment] })
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *CommentRepository) AttachReply(_ context.Context, parentID, replyID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.comments[parentID]
	if !ok {
		return apperrors.NotFound("Comment not found")
	}
	for _, id := range p.Replies {
		if id == replyID {
			return nil
		}
	}
	p.Replies = append(p.Replies, replyID)
	return nil
}

func (r *CommentRepository) DetachReply(_ context.Context, parentID, replyID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.comments[parentID]
	if !ok {
		return nil
	}
	kept := p.Replies[:0]
	for _, id := range p.Replies {
		if id != replyID {
			kept = append(kept, id)
		}
	}
	p.Replies = kept
	return nil
}

func (r *CommentRepository) DeleteComment(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[id]; !ok {
		return apperrors.NotFound("Comment not found")
	}
	delete(r.comments, id)
	return nil
}

func (r *CommentRepository) DeleteReplies(_ context.Context, parentID primitive.ObjectID, replyIDs []primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	listed := map[primitive.ObjectID]bool{}
	for _, id := range replyIDs {
		listed[id] = true
	}
	var n int64
	for id, c := range r.comments {
		if listed[id] || (c.ParentComment != nil && *c.ParentComment == parentID) {
			delete(r.comments, id)
			n++
		}
	}
	return n, nil
}

func (r *CommentRepository) AddLike(_ context.Context, id primitive.ObjectID, userID string) error {
	return r.mutate(id, func(c *models.Comment) error {
		return addMember(&c.Likes, userID, "Comment already liked")
	})
}

func (r *CommentRepository) RemoveLike(_ context.Context, id primitive.ObjectID, userID string) error {
	return r.mutate(id, func(c *models.Comment) error {
		return removeMember(&c.Likes, userID, "Comment not liked")
	})
}

func (r *CommentRepository) mutate(id primitive.ObjectID, fn func(*models.Comment) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return apperrors.NotFound("Comment not found")
	}
	return fn(c)
}

func (r *CommentRepository) filter(keep func(*models.Comment) bool) []models.Comment {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Comment{}
	for _, c := range r.comments {
		if keep(c) {
			out = append(out, *cloneComment(c))
		}
	}
	return out
}

func cloneComment(c *models.Comment) *models.Comment {
	cp := *c
	cp.Replies = append([]primitive.ObjectID{}, c.Replies...)
	cp.Likes = append([]string{}, c.Likes...)
	if c.ParentComment != nil {
		parent := *c.ParentComment
		cp.ParentComment = &parent
	}
	return &cp
}
