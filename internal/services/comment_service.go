package services

import (
	"context"

	"github.com/anonto42/fotofolio/backend/internal/apperrors"
	"github.com/anonto42/fotofolio/backend/internal/models"
	"github.com/anonto42/fotofolio/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CommentService manages comments, one level of replies, and comment likes
type CommentService struct {
	comments repositories.CommentRepository
	photos   repositories.PhotoRepository
	users    repositories.UserRepository
	recorder *Recorder
	logger   *zap.Logger
}

func NewCommentService(comments repositories.CommentRepository, photos repositories.PhotoRepository, users repositories.UserRepository, recorder *Recorder, logger *zap.Logger) *CommentService {
	return &CommentService{comments: comments, photos: photos, users: users, recorder: recorder, logger: logger}
}

// AddComment creates a top-level comment on a photo
func (s *CommentService) AddComment(ctx context.Context, userID, photoRef, content string) (*models.Comment, error) {
	content, err := requireText(content, "Comment", models.CommentMaxLen)
	if err != nil {
		return nil, err
	}
	photo, err := findLocalPhoto(ctx, s.photos, photoRef)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content: content,
		PhotoID: photo.ID,
		UserID:  userID,
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	photoID, commentID := photo.ID.Hex(), comment.ID.Hex()
	s.recorder.trackActivity(ctx, userID, models.ActivityComment, models.ActivityRefs{PhotoID: photoID, CommentID: commentID})
	s.recorder.trackNotification(ctx, photo.UserID, userID, models.NotificationComment, models.NotificationRefs{
		PhotoID:   photoID,
		CommentID: commentID,
	})
	return comment, nil
}

// AddReply answers a top-level comment. Replies to replies are rejected.
func (s *CommentService) AddReply(ctx context.Context, userID, parentID, content string) (*models.Comment, error) {
	content, err := requireText(content, "Reply", models.CommentMaxLen)
	if err != nil {
		return nil, err
	}
	pid, err := parseObjectID(parentID, "comment")
	if err != nil {
		return nil, err
	}
	parent, err := s.comments.GetCommentByID(ctx, pid)
	if err != nil {
		return nil, err
	}
	if parent.IsReply {
		return nil, apperrors.InvalidInput("Cannot reply to a reply")
	}

	reply := &models.Comment{
		Content:       content,
		PhotoID:       parent.PhotoID,
		UserID:        userID,
		IsReply:       true,
		ParentComment: &parent.ID,
	}
	if err := s.comments.CreateComment(ctx, reply); err != nil {
		return nil, err
	}
	if err := s.comments.AttachReply(ctx, parent.ID, reply.ID); err != nil {
		// parent vanished between read and write; do not leave an orphan behind
		if delErr := s.comments.DeleteComment(ctx, reply.ID); delErr != nil {
			s.logger.Error("remove orphaned reply failed", zap.String("reply", reply.ID.Hex()), zap.Error(delErr))
		}
		return nil, err
	}

	photoID, parentHex, replyID := parent.PhotoID.Hex(), parent.ID.Hex(), reply.ID.Hex()
	s.recorder.trackActivity(ctx, userID, models.ActivityCommentReply, models.ActivityRefs{
		PhotoID:   photoID,
		CommentID: parentHex,
		ReplyID:   replyID,
	})
	s.recorder.trackNotification(ctx, parent.UserID, userID, models.NotificationCommentReply, models.NotificationRefs{
		PhotoID:   photoID,
		CommentID: parentHex,
		ReplyID:   replyID,
	})
	return reply, nil
}

// DeleteComment removes the caller's comment. A parent takes its replies with it;
// a reply is also pulled from its parent's list.
func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID string) error {
	id, err := parseObjectID(commentID, "comment")
	if err != nil {
		return err
	}
	comment, err := s.comments.GetCommentByID(ctx, id)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return apperrors.Forbidden("Not authorized to delete this comment")
	}

	if comment.IsReply {
		if err := s.comments.DeleteComment(ctx, comment.ID); err != nil {
			return err
		}
		if comment.ParentComment != nil {
			return s.comments.DetachReply(ctx, *comment.ParentComment, comment.ID)
		}
		return nil
	}

	if _, err := s.comments.DeleteReplies(ctx, comment.ID, comment.Replies); err != nil {
		return err
	}
	return s.comments.DeleteComment(ctx, comment.ID)
}

func (s *CommentService) LikeComment(ctx context.Context, userID, commentID string) (*models.Comment, error) {
	id, err := parseObjectID(commentID, "comment")
	if err != nil {
		return nil, err
	}
	if err := s.comments.AddLike(ctx, id, userID); err != nil {
		return nil, err
	}
	comment, err := s.comments.GetCommentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.recorder.trackNotification(ctx, comment.UserID, userID, models.NotificationCommentLike, models.NotificationRefs{
		PhotoID:   comment.PhotoID.Hex(),
		CommentID: comment.ID.Hex(),
	})
	return comment, nil
}

func (s *CommentService) UnlikeComment(ctx context.Context, userID, commentID string) (*models.Comment, error) {
	id, err := parseObjectID(commentID, "comment")
	if err != nil {
		return nil, err
	}
	if err := s.comments.RemoveLike(ctx, id, userID); err != nil {
		return nil, err
	}
	return s.comments.GetCommentByID(ctx, id)
}

// ListPhotoComments returns top-level comments newest first, each with its replies oldest first
func (s *CommentService) ListPhotoComments(ctx context.Context, photoRef string) ([]models.CommentView, error) {
	photo, err := findLocalPhoto(ctx, s.photos, photoRef)
	if err != nil {
		return nil, err
	}
	top, err := s.comments.GetTopLevelByPhotoID(ctx, photo.ID)
	if err != nil {
		return nil, err
	}
	parentIDs := make([]primitive.ObjectID, 0, len(top))
	for _, c := range top {
		parentIDs = append(parentIDs, c.ID)
	}
	replies, err := s.comments.GetRepliesByParentIDs(ctx, parentIDs)
	if err != nil {
		return nil, err
	}

	userIDs := make([]string, 0, len(top)+len(replies))
	for _, c := range top {
		userIDs = append(userIDs, c.UserID)
	}
	for _, c := range replies {
		userIDs = append(userIDs, c.UserID)
	}
	users, err := s.users.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	view := func(c *models.Comment) models.CommentView {
		v := models.CommentView{Comment: c, LikeCount: len(c.Likes)}
		if u, ok := users[c.UserID]; ok {
			uc := u.ToCompact()
			v.Author = &uc
		}
		return v
	}

	byParent := map[primitive.ObjectID][]models.CommentView{}
	for i := range replies {
		r := &replies[i]
		if r.ParentComment != nil {
			byParent[*r.ParentComment] = append(byParent[*r.ParentComment], view(r))
		}
	}

	out := make([]models.CommentView, 0, len(top))
	for i := range top {
		v := view(&top[i])
		v.ReplyItems = byParent[top[i].ID]
		out = append(out, v)
	}
	return out, nil
}
