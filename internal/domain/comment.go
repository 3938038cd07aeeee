package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/versestream/backend/internal/domain/challenge"
	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/internal/model"
	"github.com/versestream/backend/internal/repository"
	"github.com/versestream/backend/pkg/enum"
	"github.com/versestream/backend/pkg/errorx"
	"github.com/versestream/backend/pkg/xcontext"
	"gorm.io/gorm"
)

const (
	communityPageSize     = 100
	restrictionTimeLayout = "2006-01-02 15:04"
	auditDeleteComment    = "DELETE_COMMENT"
)

type deleteCommentDetails struct {
	Type   string `structs:"type"`
	ItemID int64  `structs:"item_id"`
}

type CommentDomain interface {
	GetComments(context.Context, *model.GetCommentsRequest) (*model.GetCommentsResponse, error)
	PostComment(context.Context, *model.PostCommentRequest) (*model.PostCommentResponse, error)
	GetCommunity(context.Context, *model.GetCommunityRequest) (*model.GetCommunityResponse, error)
	PostCommunity(context.Context, *model.PostCommunityRequest) (*model.PostCommunityResponse, error)
	React(context.Context, *model.ReactRequest) (*model.ReactResponse, error)
	PostReply(context.Context, *model.PostReplyRequest) (*model.PostReplyResponse, error)
	DeleteComment(context.Context, *model.DeleteCommentRequest) (*model.DeleteCommentResponse, error)
	DeleteCommunity(context.Context, *model.DeleteCommunityRequest) (*model.DeleteCommunityResponse, error)
}

type commentDomain struct {
	userRepo        repository.UserRepository
	commentRepo     repository.CommentRepository
	communityRepo   repository.CommunityRepository
	replyRepo       repository.ReplyRepository
	reactionRepo    repository.ReactionRepository
	restrictionRepo repository.CommentRestrictionRepository
	auditLogRepo    repository.AuditLogRepository
	tracker         *challenge.Tracker
}

func NewCommentDomain(
	userRepo repository.UserRepository,
	commentRepo repository.CommentRepository,
	communityRepo repository.CommunityRepository,
	replyRepo repository.ReplyRepository,
	reactionRepo repository.ReactionRepository,
	restrictionRepo repository.CommentRestrictionRepository,
	auditLogRepo repository.AuditLogRepository,
	dailyActionRepo repository.DailyActionRepository,
) *commentDomain {
	return &commentDomain{
		userRepo:        userRepo,
		commentRepo:     commentRepo,
		communityRepo:   communityRepo,
		replyRepo:       replyRepo,
		reactionRepo:    reactionRepo,
		restrictionRepo: restrictionRepo,
		auditLogRepo:    auditLogRepo,
		tracker:         challenge.NewTracker(dailyActionRepo),
	}
}

// checkRestriction rejects callers with an active comment restriction.
func (d *commentDomain) checkRestriction(ctx context.Context, userID int64) error {
	restriction, err := d.restrictionRepo.GetActive(ctx, userID, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get comment restriction: %v", err)
		return errorx.Unknown
	}

	expiresAt := "soon"
	if !restriction.ExpiresAt.IsZero() {
		expiresAt = restriction.ExpiresAt.Local().Format(restrictionTimeLayout)
	}

	return errorx.New(errorx.Restricted, "restricted").WithData(map[string]any{
		"message":    "You have been restricted from commenting due to " + restriction.Reason + " for 1-24hrs",
		"reason":     restriction.Reason,
		"expires_at": expiresAt,
	})
}

// author loads the poster so the name and picture known now are kept with
// the item.
func (d *commentDomain) author(ctx context.Context) (*entity.User, error) {
	u, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unauthenticated, "User not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return u, nil
}

func (d *commentDomain) loadUsers(ctx context.Context, ids []int64) (map[int64]*entity.User, error) {
	users, err := d.userRepo.GetByIDs(ctx, compactIDs(ids))
	if err != nil {
		return nil, err
	}

	result := make(map[int64]*entity.User, len(users))
	for i := range users {
		result[users[i].ID] = &users[i]
	}

	return result, nil
}

func (d *commentDomain) reactionCounts(
	ctx context.Context, itemType entity.ItemType, itemID int64,
) (map[string]int, error) {
	counts, err := d.reactionRepo.CountByItem(ctx, itemType, itemID)
	if err != nil {
		return nil, err
	}

	result := make(map[string]int, len(entity.ReactionTypes))
	for _, r := range entity.ReactionTypes {
		result[string(r)] = counts[r]
	}

	return result, nil
}

func (d *commentDomain) replies(
	ctx context.Context, parentType entity.ItemType, parentID int64,
) ([]model.Reply, error) {
	replies, err := d.replyRepo.GetByParent(ctx, parentType, parentID)
	if err != nil {
		return nil, err
	}

	userIDs := make([]int64, 0, len(replies))
	for _, r := range replies {
		userIDs = append(userIDs, r.UserID)
	}

	users, err := d.loadUsers(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	result := []model.Reply{}
	for _, r := range replies {
		display := authorDisplay(users[r.UserID], r.GoogleName, r.GooglePicture)
		result = append(result, model.Reply{
			ID:          r.ID,
			UserID:      r.UserID,
			Text:        r.Text,
			Timestamp:   r.CreatedAt,
			UserName:    display.Name,
			UserPicture: display.Picture,
			UserRole:    display.Role,
		})
	}

	return result, nil
}

// thread builds the displayed form of a comment or a community message.
func (d *commentDomain) thread(
	ctx context.Context,
	itemType entity.ItemType,
	base entity.Base,
	userID int64,
	text string,
	display displayUser,
) (model.Comment, error) {
	reactions, err := d.reactionCounts(ctx, itemType, base.ID)
	if err != nil {
		return model.Comment{}, err
	}

	replies, err := d.replies(ctx, itemType, base.ID)
	if err != nil {
		return model.Comment{}, err
	}

	return model.Comment{
		ID:          base.ID,
		Text:        text,
		Timestamp:   base.CreatedAt,
		UserName:    display.Name,
		UserPicture: display.Picture,
		UserID:      userID,
		UserRole:    display.Role,
		Reactions:   reactions,
		Replies:     replies,
		ReplyCount:  len(replies),
	}, nil
}

func (d *commentDomain) GetComments(
	ctx context.Context, req *model.GetCommentsRequest,
) (*model.GetCommentsResponse, error) {
	comments, err := d.commentRepo.GetByVerseID(ctx, req.VerseID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get comments: %v", err)
		return nil, errorx.Unknown
	}

	userIDs := make([]int64, 0, len(comments))
	for _, c := range comments {
		userIDs = append(userIDs, c.UserID)
	}

	users, err := d.loadUsers(ctx, userIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get comment authors: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.GetCommentsResponse{}
	for _, c := range comments {
		display := authorDisplay(users[c.UserID], c.GoogleName, c.GooglePicture)
		item, err := d.thread(ctx, entity.ItemComment, c.Base, c.UserID, c.Text, display)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get comment thread: %v", err)
			return nil, errorx.Unknown
		}

		resp = append(resp, item)
	}

	return &resp, nil
}

func (d *commentDomain) PostComment(
	ctx context.Context, req *model.PostCommentRequest,
) (*model.PostCommentResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if err := d.checkRestriction(ctx, userID); err != nil {
		return nil, err
	}

	text := trimText(req.Text)
	if text == "" {
		return nil, errorx.New(errorx.BadRequest, "Empty comment")
	}

	if req.VerseID <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Missing verse_id")
	}

	u, err := d.author(ctx)
	if err != nil {
		return nil, err
	}

	comment := &entity.Comment{
		UserID:        userID,
		VerseID:       req.VerseID,
		Text:          text,
		GoogleName:    u.Name,
		GooglePicture: u.Picture,
	}
	if err := d.commentRepo.Create(ctx, comment); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create comment: %v", err)
		return nil, errorx.Unknown
	}

	d.tracker.Record(ctx, userID, entity.ActionComment, comment.ID)
	return &model.PostCommentResponse{Success: true, ID: comment.ID}, nil
}

func (d *commentDomain) GetCommunity(
	ctx context.Context, req *model.GetCommunityRequest,
) (*model.GetCommunityResponse, error) {
	messages, err := d.communityRepo.GetLatest(ctx, communityPageSize)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get community messages: %v", err)
		return nil, errorx.Unknown
	}

	userIDs := make([]int64, 0, len(messages))
	for _, m := range messages {
		userIDs = append(userIDs, m.UserID)
	}

	users, err := d.loadUsers(ctx, userIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get community authors: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.GetCommunityResponse{}
	for _, m := range messages {
		display := authorDisplay(users[m.UserID], m.GoogleName, m.GooglePicture)
		item, err := d.thread(ctx, entity.ItemCommunity, m.Base, m.UserID, m.Text, display)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get community thread: %v", err)
			return nil, errorx.Unknown
		}

		resp = append(resp, item)
	}

	return &resp, nil
}

func (d *commentDomain) PostCommunity(
	ctx context.Context, req *model.PostCommunityRequest,
) (*model.PostCommunityResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if err := d.checkRestriction(ctx, userID); err != nil {
		return nil, err
	}

	text := trimText(req.Text)
	if text == "" {
		return nil, errorx.New(errorx.BadRequest, "Empty message")
	}

	u, err := d.author(ctx)
	if err != nil {
		return nil, err
	}

	message := &entity.CommunityMessage{
		UserID:        userID,
		Text:          text,
		GoogleName:    u.Name,
		GooglePicture: u.Picture,
	}
	if err := d.communityRepo.Create(ctx, message); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create community message: %v", err)
		return nil, errorx.Unknown
	}

	d.tracker.Record(ctx, userID, entity.ActionCommunity, message.ID)
	return &model.PostCommunityResponse{Success: true, ID: message.ID}, nil
}

func parseItemType(s string) (entity.ItemType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return entity.ItemComment, nil
	}

	return enum.ToEnum[entity.ItemType](s)
}

func (d *commentDomain) React(ctx context.Context, req *model.ReactRequest) (*model.ReactResponse, error) {
	itemType, err := parseItemType(req.ItemType)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid item_type")
	}

	reaction, err := enum.ToEnum[entity.ReactionType](strings.ToLower(strings.TrimSpace(req.Reaction)))
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid reaction")
	}

	if req.ItemID <= 0 {
		return nil, errorx.New(errorx.BadRequest, "item_id required")
	}

	data := &entity.Reaction{
		ItemType: itemType,
		ItemID:   req.ItemID,
		UserID:   xcontext.RequestUserID(ctx),
		Reaction: reaction,
	}

	deleted, err := d.reactionRepo.Delete(ctx, data)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete reaction: %v", err)
		return nil, errorx.Unknown
	}

	active := deleted == 0
	if active {
		if err := d.reactionRepo.Create(ctx, data); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create reaction: %v", err)
			return nil, errorx.Unknown
		}
	}

	counts, err := d.reactionCounts(ctx, itemType, req.ItemID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count reactions: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ReactResponse{Success: true, Active: active, Reactions: counts}, nil
}

func (d *commentDomain) PostReply(
	ctx context.Context, req *model.PostReplyRequest,
) (*model.PostReplyResponse, error) {
	parentType, err := parseItemType(req.ParentType)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid parent_type")
	}

	if req.ParentID <= 0 {
		return nil, errorx.New(errorx.BadRequest, "parent_id required")
	}

	text := trimText(req.Text)
	if text == "" {
		return nil, errorx.New(errorx.BadRequest, "Empty reply")
	}

	userID := xcontext.RequestUserID(ctx)
	if err := d.checkRestriction(ctx, userID); err != nil {
		return nil, err
	}

	u, err := d.author(ctx)
	if err != nil {
		return nil, err
	}

	err = d.replyRepo.Create(ctx, &entity.Reply{
		ParentType:    parentType,
		ParentID:      req.ParentID,
		UserID:        userID,
		Text:          text,
		GoogleName:    u.Name,
		GooglePicture: u.Picture,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create reply: %v", err)
		return nil, errorx.Unknown
	}

	replies, err := d.replies(ctx, parentType, req.ParentID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get replies: %v", err)
		return nil, errorx.Unknown
	}

	return &model.PostReplyResponse{Success: true, Replies: replies, ReplyCount: len(replies)}, nil
}

func (d *commentDomain) DeleteComment(
	ctx context.Context, req *model.DeleteCommentRequest,
) (*model.DeleteCommentResponse, error) {
	deleted, err := d.commentRepo.SoftDelete(ctx, req.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete comment: %v", err)
		return nil, errorx.Unknown
	}

	if deleted == 0 {
		return nil, errorx.New(errorx.NotFound, "Comment not found")
	}

	writeAuditLog(ctx, d.auditLogRepo, xcontext.RequestUserID(ctx), auditDeleteComment, 0,
		deleteCommentDetails{Type: string(entity.ItemComment), ItemID: req.ID})

	return &model.DeleteCommentResponse{Success: true}, nil
}

func (d *commentDomain) DeleteCommunity(
	ctx context.Context, req *model.DeleteCommunityRequest,
) (*model.DeleteCommunityResponse, error) {
	deleted, err := d.communityRepo.Delete(ctx, req.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete community message: %v", err)
		return nil, errorx.Unknown
	}

	if deleted == 0 {
		return nil, errorx.New(errorx.NotFound, "Message not found")
	}

	writeAuditLog(ctx, d.auditLogRepo, xcontext.RequestUserID(ctx), auditDeleteComment, 0,
		deleteCommentDetails{Type: string(entity.ItemCommunity), ItemID: req.ID})

	return &model.DeleteCommunityResponse{Success: true}, nil
}
