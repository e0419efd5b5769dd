package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrUserAlreadyExist = errors.New("user already exist")
	ErrRefreshNotUsable = errors.New("refresh token expired or revoked")
)

type GormRepo struct {
	DB *gorm.DB
}
