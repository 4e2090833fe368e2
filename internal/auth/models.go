package auth

import "time"

type User struct {
	UserID         string    `gorm:"primaryKey" json:"user_id"`
	Username       string    `gorm:"uniqueIndex;not null" json:"username"`
	Password       string    `json:"password" gorm:"-"`
	HashedPassword string    `json:"-"`
	Role           string    `gorm:"default:'user'" json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}

// Token is one issued access/refresh pair. Tokens are opaque; validity lives
// entirely in this table.
type Token struct {
	AccessToken      string    `gorm:"primaryKey" json:"access"`
	RefreshToken     string    `gorm:"uniqueIndex;not null" json:"refresh"`
	UserID           string    `gorm:"not null;index" json:"-"`
	AccessExpiresAt  time.Time `gorm:"not null" json:"-"`
	RefreshExpiresAt time.Time `gorm:"not null" json:"-"`
	CreatedAt        time.Time `json:"-"`
}

func (User) TableName() string  { return "app_auth.users" }
func (Token) TableName() string { return "app_auth.tokens" }
