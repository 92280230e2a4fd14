package sql

import "time"

// Session is one stored session row. SessionKey holds the ULID issued by the session middleware.
type Session struct {
	SessionKey  string    `gorm:"type:varchar(40);primaryKey"`
	SessionData string    `gorm:"type:text;not null"`
	ExpireDate  time.Time `gorm:"index;not null"`
}

func (Session) TableName() string { return "chat_sessions" }
