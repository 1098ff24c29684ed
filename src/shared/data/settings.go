package data

import (
	"sync"

	"gorm.io/gorm"

	"github.com/lowball-game/lowball/src/lowball/types"
)

// Admin-managed name/value rows, read at startup and cached in-process.
// Known names: captcha_verify_url, geo_api_url.
var (
	settings   map[string]string
	settingsMu sync.RWMutex
)

// LoadSettings replaces the cache with the current database rows.
func LoadSettings(db *gorm.DB) error {
	var rows []types.Setting
	if err := db.Find(&rows).Error; err != nil {
		return err
	}

	cache := make(map[string]string, len(rows))
	for _, s := range rows {
		cache[s.Name] = s.Value
	}

	settingsMu.Lock()
	settings = cache
	settingsMu.Unlock()
	return nil
}

// GetSetting returns the cached value for name, or "" when unset.
func GetSetting(name string) string {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return settings[name]
}
