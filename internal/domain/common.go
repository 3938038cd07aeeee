package domain

import (
	"context"
	"strconv"
	"strings"

	"github.com/fatih/structs"
	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/internal/model"
	"github.com/versestream/backend/internal/repository"
	"github.com/versestream/backend/pkg/xcontext"
)

// generateAccessToken signs the token which is stored in the access token
// cookie. It must be re-issued whenever a field it carries changes.
func generateAccessToken(ctx context.Context, u *entity.User) (string, error) {
	return xcontext.TokenEngine(ctx).Generate(strconv.FormatInt(u.ID, 10), model.AccessToken{
		ID:      u.ID,
		Name:    u.Name,
		Picture: u.Picture,
		Role:    string(u.Role),
		IsAdmin: u.IsAdmin,
	})
}

// writeAuditLog records an admin action. Failures are logged only, the
// action itself has already been applied.
func writeAuditLog(
	ctx context.Context,
	auditLogRepo repository.AuditLogRepository,
	adminID int64,
	action string,
	targetUserID int64,
	details any,
) {
	record := &entity.AuditLog{
		AdminID:   adminID,
		Action:    action,
		IPAddress: xcontext.RemoteAddr(ctx),
	}

	if targetUserID != 0 {
		record.TargetUserID.Int64 = targetUserID
		record.TargetUserID.Valid = true
	}

	if details != nil {
		record.Details = structs.Map(details)
	}

	if err := auditLogRepo.Create(ctx, record); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot write audit log %s: %v", action, err)
	}
}

type displayUser struct {
	Name    string
	Picture string
	Role    string
}

// authorDisplay picks the display fields of an author: the current profile
// first, then the values captured when the item was posted.
func authorDisplay(u *entity.User, capturedName, capturedPicture string) displayUser {
	result := displayUser{Name: "Anonymous", Role: string(entity.RoleUser)}

	if capturedName != "" {
		result.Name = capturedName
	}
	result.Picture = capturedPicture

	if u == nil {
		return result
	}

	if u.Name != "" {
		result.Name = u.Name
	}

	if u.Picture != "" {
		result.Picture = u.Picture
	}

	if u.Role != "" {
		result.Role = string(u.Role)
	}

	return result
}

func trimText(s string) string {
	return strings.TrimSpace(s)
}
