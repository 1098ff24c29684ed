package data

import (
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/lowball-game/lowball/src/lowball/types"
)

func MustMySQL(dsn string) *gorm.DB {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	return db
}

// Migrate creates or updates the schema for all stored types.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&types.Vote{}, &types.TimeConstraint{}, &types.Setting{})
}
