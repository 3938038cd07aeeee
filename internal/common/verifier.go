package common

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/internal/repository"
	"github.com/versestream/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// ISOLayout is how expiry dates are returned to clients.
const ISOLayout = "2006-01-02T15:04:05"

type BanStatus struct {
	Banned    bool
	Reason    string
	ExpiresAt *time.Time
}

// ExpiresAtString returns nil for permanent bans.
func (s BanStatus) ExpiresAtString() *string {
	if s.ExpiresAt == nil {
		return nil
	}

	v := s.ExpiresAt.Local().Format(ISOLayout)
	return &v
}

type BanVerifier struct {
	userRepo repository.UserRepository
	banRepo  repository.BanRepository
}

func NewBanVerifier(userRepo repository.UserRepository, banRepo repository.BanRepository) *BanVerifier {
	return &BanVerifier{userRepo: userRepo, banRepo: banRepo}
}

// Status returns the ban status of the user. A temporary ban whose expiry has
// passed is lifted before returning. Unknown users are not banned.
func (verifier *BanVerifier) Status(ctx context.Context, userID int64) (BanStatus, error) {
	u, err := verifier.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BanStatus{}, nil
		}

		return BanStatus{}, err
	}

	if !u.IsBanned {
		return BanStatus{}, nil
	}

	if u.BanExpiresAt.Valid && time.Now().After(u.BanExpiresAt.Time) {
		if err := verifier.userRepo.ClearBan(ctx, userID); err != nil {
			return BanStatus{}, err
		}

		if err := verifier.banRepo.Delete(ctx, userID); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot delete expired ban record of user %d: %v", userID, err)
		}

		return BanStatus{}, nil
	}

	status := BanStatus{Banned: true, Reason: u.BanReason.String}
	if u.BanExpiresAt.Valid {
		status.ExpiresAt = &u.BanExpiresAt.Time
	}

	return status, nil
}

type AdminVerifier struct {
	userRepo repository.UserRepository
}

func NewAdminVerifier(userRepo repository.UserRepository) *AdminVerifier {
	return &AdminVerifier{userRepo: userRepo}
}

// Verify fails when the request user is anonymous, unknown or not an admin.
func (verifier *AdminVerifier) Verify(ctx context.Context) error {
	userID := xcontext.RequestUserID(ctx)
	if userID == 0 {
		return errors.New("anonymous user")
	}

	u, err := verifier.userRepo.GetByID(ctx, userID)
	if err != nil {
		return errors.New("user is not valid")
	}

	if !u.IsAdmin {
		return errors.New("user is not an admin")
	}

	return nil
}

// IsTruthy reports whether a setting value turns a flag on.
func IsTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// MaintenanceEnabled reads the maintenance flag. A missing setting means the
// site is open.
func MaintenanceEnabled(ctx context.Context, settingRepo repository.SettingRepository) (bool, error) {
	value, err := settingRepo.Get(ctx, entity.SettingMaintenanceMode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}

		return false, err
	}

	return IsTruthy(value), nil
}
