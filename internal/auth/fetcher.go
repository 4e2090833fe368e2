package auth

import (
	"github.com/vick25/ceedd-stream-backend/internal/db"
	"github.com/vick25/ceedd-stream-backend/internal/utils"
)

type TokenInfo struct{}

func (ti TokenInfo) FindTokenByAccess(token string) (utils.TokenData, error) {
	var t Token

	err := db.DB.First(&t, "access_token = ?", token).Error
	if err != nil {
		return utils.TokenData{}, err
	}

	return utils.TokenData{
		UserID:    t.UserID,
		ExpiresAt: t.AccessExpiresAt,
	}, nil
}
