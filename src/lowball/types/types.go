package types

import "time"

// Votes
type Vote struct {
	ID        uint64 `gorm:"primaryKey"`
	Value     int64  `gorm:"not null"`
	PlayerID  string `gorm:"size:36;index;not null"`
	IP        string `gorm:"size:45"`
	Location  string `gorm:"size:128"`
	CreatedAt time.Time
}

// Admin-defined time windows. Kind 0 = include, 1 = exclude.
type TimeConstraint struct {
	ID        uint64    `gorm:"primaryKey"`
	StartAt   time.Time `gorm:"not null"`
	EndAt     time.Time `gorm:"not null"`
	Kind      int8      `gorm:"not null;default:0"`
	Enabled   bool      `gorm:"default:true"`
	Note      string    `gorm:"size:255"`
	CreatedAt time.Time
}

// Settings
type Setting struct {
	ID    uint8  `gorm:"primaryKey"`
	Name  string `gorm:"size:32;not null"`
	Value string `gorm:"size:256;not null"`
}
