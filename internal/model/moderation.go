package model

type BanUserRequest struct {
	UserID int64
	Reason string

	// Hours is zero for a permanent ban.
	Hours int
}

type UnbanUserRequest struct {
	UserID int64
}

type RestrictUserRequest struct {
	UserID int64
	Reason string
	Hours  int
}

type UnrestrictUserRequest struct {
	UserID int64
}

type NotifyRequest struct {
	// UserID is zero to broadcast to every user.
	UserID  int64
	Title   string
	Message string
}

type NotifyResponse struct {
	Sent int
}

type SetMaintenanceRequest struct {
	Enabled bool
}
