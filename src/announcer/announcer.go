package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/redis/go-redis/v9"

	"github.com/lowball-game/lowball/src/announcer/config"
	"github.com/lowball-game/lowball/src/shared/data"
)

type Announcer struct {
	session *discordgo.Session
	rdb     *redis.Client
	cfg     config.Config

	mu           sync.Mutex
	lastAnnounce time.Time
}

type VoteEvent struct {
	ID      uint64
	Value   int64
	Player  string
	Winner  bool
	Total   int
	Average string
	Time    int64
}

func main() {
	cfg := config.Load()

	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		log.Fatalf("discord: %v", err)
	}
	if err := session.Open(); err != nil {
		log.Fatalf("discord open: %v", err)
	}
	defer session.Close()

	a := &Announcer{
		session: session,
		rdb:     data.MustRedis(cfg.RedisURL),
		cfg:     cfg,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go a.listenForVotes(ctx)

	log.Printf("Announcer connected, watching stream %s", data.StreamVotes)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	cancel()
}

func (a *Announcer) listenForVotes(ctx context.Context) {
	// Start at the stream tail so restarts do not replay old rounds.
	lastID := "$"

	for {
		select {
		case <-ctx.Done():
			return
		default:
			streams, err := a.rdb.XRead(ctx, &redis.XReadArgs{
				Streams: []string{data.StreamVotes, lastID},
				Count:   10,
				Block:   5 * time.Second,
			}).Result()

			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					log.Printf("Error reading stream: %v", err)
				}
				continue
			}

			for _, stream := range streams {
				for _, msg := range stream.Messages {
					lastID = msg.ID
					ev := parseEvent(msg.Values)
					if err := a.handle(ev); err != nil {
						log.Printf("Error announcing vote %d: %v", ev.ID, err)
					}
				}
			}
		}
	}
}

func parseEvent(values map[string]interface{}) VoteEvent {
	var ev VoteEvent
	if s, ok := values["id"].(string); ok {
		ev.ID, _ = strconv.ParseUint(s, 10, 64)
	}
	if s, ok := values["value"].(string); ok {
		ev.Value, _ = strconv.ParseInt(s, 10, 64)
	}
	if s, ok := values["player"].(string); ok {
		ev.Player = s
	}
	if s, ok := values["winner"].(string); ok {
		ev.Winner = s == "true"
	}
	if s, ok := values["total"].(string); ok {
		ev.Total, _ = strconv.Atoi(s)
	}
	if s, ok := values["average"].(string); ok {
		ev.Average = s
	}
	if s, ok := values["time"].(string); ok {
		ev.Time, _ = strconv.ParseInt(s, 10, 64)
	}
	return ev
}

// handle posts a channel embed when a cast vote takes the lead. Quiet rounds
// and non-winning votes are skipped, and announcements are throttled so a
// volley of tied votes does not flood the channel.
func (a *Announcer) handle(ev VoteEvent) error {
	if !ev.Winner || ev.Total < a.cfg.MinVotes {
		return nil
	}

	a.mu.Lock()
	if time.Since(a.lastAnnounce) < a.cfg.AnnounceCooldown {
		a.mu.Unlock()
		return nil
	}
	a.lastAnnounce = time.Now()
	a.mu.Unlock()

	embed := &discordgo.MessageEmbed{
		Title: "New leading guess",
		Color: 0x00b894,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Guess", Value: strconv.FormatInt(ev.Value, 10), Inline: true},
			{Name: "Votes so far", Value: strconv.Itoa(ev.Total), Inline: true},
		},
	}
	if ev.Average != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Average", Value: ev.Average, Inline: true,
		})
	}
	if ev.Time > 0 {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("cast at %s", time.Unix(ev.Time, 0).UTC().Format(time.RFC3339)),
		}
	}

	_, err := a.session.ChannelMessageSendEmbed(a.cfg.DiscordChannelID, embed)
	return err
}
