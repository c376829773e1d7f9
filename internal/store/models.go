package store

import "time"

// GORM models used for persistence. Status is a plain column, not gorm's
// DeletedAt, so the soft-delete filter stays visible in every query.
type UserModel struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Username     string    `gorm:"not null;index"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"not null"`
	FirstName    string    `gorm:"not null"`
	LastName     string    `gorm:"not null"`
	Enabled      bool      `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
	Status       string    `gorm:"not null;index"`
}

func (UserModel) TableName() string { return "users" }

type FileModel struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Location string `gorm:"not null"`
	Status   string `gorm:"not null;index"`
}

func (FileModel) TableName() string { return "files" }

type EventModel struct {
	ID     int64  `gorm:"primaryKey;autoIncrement"`
	UserID int64  `gorm:"not null;index"`
	FileID int64  `gorm:"not null;index"`
	Status string `gorm:"not null;index"`
}

func (EventModel) TableName() string { return "events" }
