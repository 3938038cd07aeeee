package domain

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/versestream/backend/internal/common"
	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/internal/model"
	"github.com/versestream/backend/internal/repository"
	"github.com/versestream/backend/pkg/errorx"
	"github.com/versestream/backend/pkg/xcontext"
	"gorm.io/gorm"
)

const (
	minNameLength = 2
	maxNameLength = 40
)

type UserDomain interface {
	GetUserInfo(context.Context, *model.GetUserInfoRequest) (*model.GetUserInfoResponse, error)
	UpdateName(context.Context, *model.UpdateNameRequest) (*model.UpdateNameResponse, error)
	VerifyRoleCode(context.Context, *model.VerifyRoleCodeRequest) (*model.VerifyRoleCodeResponse, error)
	GetStats(context.Context, *model.GetStatsRequest) (*model.GetStatsResponse, error)
}

type userDomain struct {
	userRepo      repository.UserRepository
	verseRepo     repository.VerseRepository
	likeRepo      repository.LikeRepository
	saveRepo      repository.SaveRepository
	commentRepo   repository.CommentRepository
	communityRepo repository.CommunityRepository
	replyRepo     repository.ReplyRepository
	auditLogRepo  repository.AuditLogRepository
}

func NewUserDomain(
	userRepo repository.UserRepository,
	verseRepo repository.VerseRepository,
	likeRepo repository.LikeRepository,
	saveRepo repository.SaveRepository,
	commentRepo repository.CommentRepository,
	communityRepo repository.CommunityRepository,
	replyRepo repository.ReplyRepository,
	auditLogRepo repository.AuditLogRepository,
) *userDomain {
	return &userDomain{
		userRepo:      userRepo,
		verseRepo:     verseRepo,
		likeRepo:      likeRepo,
		saveRepo:      saveRepo,
		commentRepo:   commentRepo,
		communityRepo: communityRepo,
		replyRepo:     replyRepo,
		auditLogRepo:  auditLogRepo,
	}
}

type roleAssignedDetails struct {
	Role     string `structs:"role"`
	CodeUsed bool   `structs:"code_used"`
}

func (d *userDomain) getRequestUser(ctx context.Context) (*entity.User, error) {
	u, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return u, nil
}

func (d *userDomain) GetUserInfo(
	ctx context.Context, req *model.GetUserInfoRequest,
) (*model.GetUserInfoResponse, error) {
	u, err := d.getRequestUser(ctx)
	if err != nil {
		return nil, err
	}

	role := string(u.Role)
	if role == "" {
		role = string(entity.RoleUser)
	}

	return &model.GetUserInfoResponse{
		CreatedAt:    u.CreatedAt,
		IsAdmin:      u.IsAdmin,
		IsBanned:     u.IsBanned,
		Role:         role,
		Name:         u.Name,
		SessionAdmin: u.IsAdmin,
	}, nil
}

func (d *userDomain) UpdateName(
	ctx context.Context, req *model.UpdateNameRequest,
) (*model.UpdateNameResponse, error) {
	name := strings.TrimSpace(req.Name)
	if utf8.RuneCountInString(name) < minNameLength {
		return nil, errorx.New(errorx.BadRequest, "Name must be at least %d characters", minNameLength)
	}

	if utf8.RuneCountInString(name) > maxNameLength {
		return nil, errorx.New(errorx.BadRequest, "Name must be %d characters or less", maxNameLength)
	}

	u, err := d.getRequestUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := d.userRepo.UpdateName(ctx, u.ID, name); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update user name: %v", err)
		return nil, errorx.Unknown
	}

	u.Name = name
	token, err := generateAccessToken(ctx, u)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate access token: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateNameResponse{Success: true, Name: name, AccessToken: token}, nil
}

func (d *userDomain) VerifyRoleCode(
	ctx context.Context, req *model.VerifyRoleCodeRequest,
) (*model.VerifyRoleCodeResponse, error) {
	role := strings.ToLower(strings.TrimSpace(req.Role))
	code := strings.ToUpper(strings.TrimSpace(req.Code))

	expected, ok := xcontext.Configs(ctx).RoleCodes.Codes()[role]
	if !ok || expected == "" || code != expected {
		xcontext.Logger(ctx).Infof("Invalid role code for role %q from user %d",
			role, xcontext.RequestUserID(ctx))
		return nil, errorx.New(errorx.BadRequest, "Invalid code for %s role.", common.RoleDisplay(role))
	}

	u, err := d.getRequestUser(ctx)
	if err != nil {
		return nil, err
	}

	// Every redeemable role is an admin role.
	if err := d.userRepo.UpdateRole(ctx, u.ID, entity.Role(role), true); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update user role: %v", err)
		return nil, errorx.Unknown
	}

	writeAuditLog(ctx, d.auditLogRepo, u.ID, "role_assigned", u.ID,
		roleAssignedDetails{Role: role, CodeUsed: true})
	xcontext.Logger(ctx).Infof("Role %s assigned to user %d", role, u.ID)

	u.Role = entity.Role(role)
	u.IsAdmin = true
	token, err := generateAccessToken(ctx, u)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate access token: %v", err)
		return nil, errorx.Unknown
	}

	return &model.VerifyRoleCodeResponse{
		Success:     true,
		Role:        role,
		RoleDisplay: common.RoleDisplay(role),
		AccessToken: token,
	}, nil
}

func (d *userDomain) GetStats(
	ctx context.Context, req *model.GetStatsRequest,
) (*model.GetStatsResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	resp := &model.GetStatsResponse{}

	var err error
	if resp.TotalVerses, err = d.verseRepo.Count(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count verses: %v", err)
		return nil, errorx.Unknown
	}

	counters := []struct {
		name  string
		count func(context.Context, int64) (int64, error)
		value *int64
	}{
		{"likes", d.likeRepo.Count, &resp.Liked},
		{"saves", d.saveRepo.Count, &resp.Saved},
		{"comments", d.commentRepo.CountByUserID, &resp.Comments},
		{"community messages", d.communityRepo.CountByUserID, &resp.Community},
		{"replies", d.replyRepo.CountByUserID, &resp.Replies},
	}

	for _, counter := range counters {
		if *counter.value, err = counter.count(ctx, userID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot count %s: %v", counter.name, err)
			return nil, errorx.Unknown
		}
	}

	resp.TotalComments = resp.Comments + resp.Community + resp.Replies
	return resp, nil
}
