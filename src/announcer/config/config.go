package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	RedisURL         string
	DiscordToken     string
	DiscordChannelID string
	AnnounceCooldown time.Duration
	MinVotes         int
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
	cooldown, _ := strconv.Atoi(getenv("ANNOUNCE_COOLDOWN_SECONDS", "60"))
	minVotes, _ := strconv.Atoi(getenv("ANNOUNCE_MIN_VOTES", "3"))
	return Config{
		RedisURL:         getenv("REDIS_URL", "redis://localhost:6379/0"),
		DiscordToken:     getenv("DISCORD_TOKEN", ""),
		DiscordChannelID: getenv("DISCORD_CHANNEL_ID", ""),
		AnnounceCooldown: time.Duration(cooldown) * time.Second,
		MinVotes:         minVotes,
	}
}
