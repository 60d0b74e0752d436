package services

import (
	"context"
	"time"

	"github.com/anonto42/fotofolio/backend/internal/apperrors"
	"github.com/anonto42/fotofolio/backend/internal/models"
	"github.com/anonto42/fotofolio/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const feedLimit = 20

// Recorder appends activity and notification records and reads them back enriched
type Recorder struct {
	activities    repositories.ActivityRepository
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	photos        repositories.PhotoRepository
	boards        repositories.BoardRepository
	comments      repositories.CommentRepository
	logger        *zap.Logger
	now           func() time.Time
}

// RecorderDeps groups the repositories the recorder reads and writes
type RecorderDeps struct {
	Activities    repositories.ActivityRepository
	Notifications repositories.NotificationRepository
	Users         repositories.UserRepository
	Photos        repositories.PhotoRepository
	Boards        repositories.BoardRepository
	Comments      repositories.CommentRepository
}

func NewRecorder(deps RecorderDeps, logger *zap.Logger) *Recorder {
	return &Recorder{
		activities:    deps.Activities,
		notifications: deps.Notifications,
		users:         deps.Users,
		photos:        deps.Photos,
		boards:        deps.Boards,
		comments:      deps.Comments,
		logger:        logger,
		now:           time.Now,
	}
}

// WithClock replaces the time source used to stamp records
func (r *Recorder) WithClock(now func() time.Time) *Recorder {
	r.now = now
	return r
}

// RecordActivity appends one activity. Unknown kinds are rejected.
func (r *Recorder) RecordActivity(ctx context.Context, actorID string, typ models.ActivityType, refs models.ActivityRefs) error {
	if !typ.Valid() {
		return apperrors.InvalidInput("Unknown activity type: " + string(typ))
	}
	a := models.NewActivity(actorID, typ, refs)
	a.CreatedAt = r.now()
	return r.activities.CreateActivity(ctx, a)
}

// RecordNotification appends one notification. A notification addressed to its own sender,
// or to nobody, is dropped here so callers never have to check.
func (r *Recorder) RecordNotification(ctx context.Context, recipientID, senderID string, typ models.NotificationType, refs models.NotificationRefs) error {
	if recipientID == "" || recipientID == senderID {
		return nil
	}
	if !typ.Valid() {
		return apperrors.InvalidInput("Unknown notification type: " + string(typ))
	}
	n := models.NewNotification(recipientID, senderID, typ, refs)
	n.CreatedAt = r.now()
	return r.notifications.CreateNotification(ctx, n)
}

// trackActivity records an activity after a primary mutation has succeeded.
// Failures are logged and never undo the mutation.
func (r *Recorder) trackActivity(ctx context.Context, actorID string, typ models.ActivityType, refs models.ActivityRefs) {
	if err := r.RecordActivity(ctx, actorID, typ, refs); err != nil {
		r.logger.Error("record activity failed",
			zap.String("action", string(typ)),
			zap.String("actor", actorID),
			zap.String("photo", refs.PhotoID),
			zap.String("board", refs.BoardID),
			zap.String("targetUser", refs.TargetUserID),
			zap.String("comment", refs.CommentID),
			zap.String("reply", refs.ReplyID),
			zap.Error(err),
		)
	}
}

func (r *Recorder) trackNotification(ctx context.Context, recipientID, senderID string, typ models.NotificationType, refs models.NotificationRefs) {
	if err := r.RecordNotification(ctx, recipientID, senderID, typ, refs); err != nil {
		r.logger.Error("record notification failed",
			zap.String("action", string(typ)),
			zap.String("actor", senderID),
			zap.String("recipient", recipientID),
			zap.String("photo", refs.PhotoID),
			zap.String("comment", refs.CommentID),
			zap.String("reply", refs.ReplyID),
			zap.Error(err),
		)
	}
}

// ListMyActivity returns the caller's newest activities
func (r *Recorder) ListMyActivity(ctx context.Context, userID string) ([]models.ActivityView, error) {
	return r.ListRecentActivity(ctx, userID, feedLimit)
}

func (r *Recorder) ListRecentActivity(ctx context.Context, userID string, limit int) ([]models.ActivityView, error) {
	activities, err := r.activities.GetByActorID(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	return r.enrichActivities(ctx, activities)
}

// ListFollowingActivity returns the newest activities of the users the caller follows
func (r *Recorder) ListFollowingActivity(ctx context.Context, userID string) ([]models.ActivityView, error) {
	activities, err := r.activities.GetByFollowedActors(ctx, userID, feedLimit)
	if err != nil {
		return nil, err
	}
	return r.enrichActivities(ctx, activities)
}

func (r *Recorder) ListNotifications(ctx context.Context, userID string) ([]models.EnrichedNotification, error) {
	notifications, err := r.notifications.GetByRecipientID(ctx, userID, feedLimit)
	if err != nil {
		return nil, err
	}
	return r.enrichNotifications(ctx, notifications)
}

func (r *Recorder) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.notifications.MarkAllAsRead(ctx, userID)
	return err
}

func (r *Recorder) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return r.notifications.GetUnreadCount(ctx, userID)
}

func (r *Recorder) enrichActivities(ctx context.Context, activities []models.Activity) ([]models.ActivityView, error) {
	var userIDs []string
	var photoIDs, boardIDs idSet
	for _, a := range activities {
		userIDs = append(userIDs, a.ActorID)
		if a.TargetUserID != nil {
			userIDs = append(userIDs, *a.TargetUserID)
		}
		photoIDs.add(a.PhotoID)
		boardIDs.add(a.BoardID)
	}

	users, err := r.users.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	photos, err := r.photos.GetPhotosByIDs(ctx, photoIDs.ids)
	if err != nil {
		return nil, err
	}
	boards, err := r.boards.GetBoardsByIDs(ctx, boardIDs.ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.ActivityView, 0, len(activities))
	for _, a := range activities {
		v := models.ActivityView{Activity: a}
		if u, ok := users[a.ActorID]; ok {
			c := u.ToCompact()
			v.Actor = &c
		}
		if a.TargetUserID != nil {
			if u, ok := users[*a.TargetUserID]; ok {
				c := u.ToCompact()
				v.TargetUser = &c
			}
		}
		if p, ok := photos[hexID(a.PhotoID)]; ok && a.PhotoID != nil {
			c := p.ToCompact()
			v.Photo = &c
		}
		if b, ok := boards[hexID(a.BoardID)]; ok && a.BoardID != nil {
			v.Board = &models.BoardCompact{ID: b.ID.Hex(), Title: b.Title}
		}
		views = append(views, v)
	}
	return views, nil
}

func (r *Recorder) enrichNotifications(ctx context.Context, notifications []models.Notification) ([]models.EnrichedNotification, error) {
	var senderIDs []string
	var photoIDs, commentIDs idSet
	for _, n := range notifications {
		senderIDs = append(senderIDs, n.SenderID)
		photoIDs.add(n.PhotoID)
		commentIDs.add(n.CommentID)
		commentIDs.add(n.ReplyID)
	}

	users, err := r.users.GetUsersByIDs(ctx, senderIDs)
	if err != nil {
		return nil, err
	}
	photos, err := r.photos.GetPhotosByIDs(ctx, photoIDs.ids)
	if err != nil {
		return nil, err
	}
	comments, err := r.comments.GetCommentsByIDs(ctx, commentIDs.ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.EnrichedNotification, 0, len(notifications))
	for _, n := range notifications {
		e := models.EnrichedNotification{Notification: n}
		if u, ok := users[n.SenderID]; ok {
			c := u.ToCompact()
			e.Sender = &c
		}
		if p, ok := photos[hexID(n.PhotoID)]; ok && n.PhotoID != nil {
			c := p.ToCompact()
			e.Photo = &c
		}
		if c, ok := comments[hexID(n.CommentID)]; ok && n.CommentID != nil {
			cc := c.ToCompact()
			e.Comment = &cc
		}
		if c, ok := comments[hexID(n.ReplyID)]; ok && n.ReplyID != nil {
			cc := c.ToCompact()
			e.Reply = &cc
		}
		out = append(out, e)
	}
	return out, nil
}

// idSet collects distinct ObjectIDs from optional hex references, skipping malformed ones
type idSet struct {
	ids  []primitive.ObjectID
	seen map[primitive.ObjectID]bool
}

func (s *idSet) add(ref *string) {
	if ref == nil {
		return
	}
	id, err := primitive.ObjectIDFromHex(*ref)
	if err != nil {
		return
	}
	if s.seen == nil {
		s.seen = map[primitive.ObjectID]bool{}
	}
	if !s.seen[id] {
		s.seen[id] = true
		s.ids = append(s.ids, id)
	}
}

func hexID(ref *string) primitive.ObjectID {
	if ref == nil {
		return primitive.NilObjectID
	}
	id, _ := primitive.ObjectIDFromHex(*ref)
	return id
}
