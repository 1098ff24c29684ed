package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	MySQLDSN      string
	RedisURL      string
	JWTSecret     string
	AdminPassHash string
	CaptchaSecret string
	Port          string
	VoteCooldown  time.Duration
	IPLimit       int64
	IPWindow      time.Duration
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		if def == "" {
			log.Fatalf("missing env %s", key)
		}
		return def
	}
	return v
}

func Load() Config {
	cooldown, _ := strconv.Atoi(getenv("VOTE_COOLDOWN_SECONDS", "30"))
	ipLimit, _ := strconv.ParseInt(getenv("IP_LIMIT", "10"), 10, 64)
	ipWindow, _ := strconv.Atoi(getenv("IP_WINDOW_SECONDS", "3600"))
	return Config{
		MySQLDSN:      getenv("MYSQL_DSN", "lowball:lowball@tcp(localhost:3306)/lowball?parseTime=true"),
		RedisURL:      getenv("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret:     getenv("JWT_SECRET", ""),
		AdminPassHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		CaptchaSecret: os.Getenv("CAPTCHA_SECRET"),
		Port:          getenv("PORT", "8080"),
		VoteCooldown:  time.Duration(cooldown) * time.Second,
		IPLimit:       ipLimit,
		IPWindow:      time.Duration(ipWindow) * time.Second,
	}
}
