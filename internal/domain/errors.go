package domain

import "errors"

var (
	ErrMemberNotFound   = errors.New("member not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrRoomClosed       = errors.New("room closed")
)
