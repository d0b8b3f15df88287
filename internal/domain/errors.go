package domain

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrRoastNotFound    = errors.New("roast not found")
	ErrSnapshotNotFound = errors.New("snapshot not found")
)
