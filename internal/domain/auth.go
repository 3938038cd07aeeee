package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/versestream/backend/internal/common"
	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/internal/model"
	"github.com/versestream/backend/internal/repository"
	"github.com/versestream/backend/pkg/authenticator"
	"github.com/versestream/backend/pkg/errorx"
	"github.com/versestream/backend/pkg/session"
	"github.com/versestream/backend/pkg/xcontext"
	"gorm.io/gorm"
)

const sessionOAuthState = "oauth_state"

type AuthDomain interface {
	GoogleLogin(context.Context, *model.GoogleLoginRequest) (*model.GoogleLoginResponse, error)
	Callback(context.Context, *model.CallbackRequest) (*model.CallbackResponse, error)
	Logout(context.Context, *model.LogoutRequest) (*model.LogoutResponse, error)
	CheckBan(context.Context, *model.CheckBanRequest) (*model.CheckBanResponse, error)
}

type authDomain struct {
	userRepo      repository.UserRepository
	banVerifier   *common.BanVerifier
	oauth2Service authenticator.OAuth2Service
}

func NewAuthDomain(
	userRepo repository.UserRepository,
	banRepo repository.BanRepository,
	oauth2Service authenticator.OAuth2Service,
) *authDomain {
	return &authDomain{
		userRepo:      userRepo,
		banVerifier:   common.NewBanVerifier(userRepo, banRepo),
		oauth2Service: oauth2Service,
	}
}

func (d *authDomain) GoogleLogin(
	ctx context.Context, req *model.GoogleLoginRequest,
) (*model.GoogleLoginResponse, error) {
	state := uuid.NewString()
	return &model.GoogleLoginResponse{
		RedirectURL: d.oauth2Service.LoginURL(state),
		State:       state,
	}, nil
}

func (d *authDomain) Callback(
	ctx context.Context, req *model.CallbackRequest,
) (*model.CallbackResponse, error) {
	if req.Error != "" {
		return nil, errorx.New(errorx.BadRequest, "Authentication failed: %s", req.Error)
	}

	if req.Code == "" {
		return nil, errorx.New(errorx.BadRequest, "Missing authorization code")
	}

	expectedState := session.GetString(ctx, sessionOAuthState)
	if expectedState == "" || req.State != expectedState {
		return nil, errorx.New(errorx.BadRequest, "Invalid state")
	}

	serviceUser, err := d.oauth2Service.VerifyAuthorizationCode(ctx, req.Code)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot verify authorization code: %v", err)
		return nil, errorx.Unknown
	}

	user, err := d.userRepo.GetByGoogleID(ctx, serviceUser.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get user by google id: %v", err)
			return nil, errorx.Unknown
		}

		user = &entity.User{
			GoogleID: serviceUser.ID,
			Email:    serviceUser.Email,
			Name:     serviceUser.Name,
			Picture:  serviceUser.Picture,
			Role:     entity.RoleUser,
		}
		if err := d.userRepo.Create(ctx, user); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
			return nil, errorx.Unknown
		}

		xcontext.Logger(ctx).Infof("New user %d registered", user.ID)
	}

	status, err := d.banVerifier.Status(ctx, user.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check ban status: %v", err)
		return nil, errorx.Unknown
	}

	if status.Banned {
		return nil, errorx.New(errorx.Banned, "banned").WithData(map[string]any{
			"reason":     status.Reason,
			"expires_at": status.ExpiresAtString(),
		})
	}

	token, err := generateAccessToken(ctx, user)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate access token: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CallbackResponse{AccessToken: token, RedirectURL: "/"}, nil
}

func (d *authDomain) Logout(
	ctx context.Context, req *model.LogoutRequest,
) (*model.LogoutResponse, error) {
	return &model.LogoutResponse{RedirectURL: "/"}, nil
}

func (d *authDomain) CheckBan(
	ctx context.Context, req *model.CheckBanRequest,
) (*model.CheckBanResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == 0 {
		return &model.CheckBanResponse{Banned: false}, nil
	}

	status, err := d.banVerifier.Status(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check ban status: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.CheckBanResponse{Banned: status.Banned}
	if status.Banned {
		resp.Reason = &status.Reason
		resp.ExpiresAt = status.ExpiresAtString()
	}

	return resp, nil
}
