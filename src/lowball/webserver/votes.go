package webserver

import (
	"context"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/lowball-game/lowball/src/lowball/captcha"
	"github.com/lowball-game/lowball/src/lowball/config"
	"github.com/lowball-game/lowball/src/lowball/geoip"
	"github.com/lowball-game/lowball/src/lowball/types"
	"github.com/lowball-game/lowball/src/shared/data"
	"github.com/lowball-game/lowball/src/shared/game"
)

const playerCookie = "lowball_player"

type Votes struct {
	db      *gorm.DB
	rdb     *redis.Client
	cfg     config.Config
	captcha *captcha.Client
	geo     *geoip.Client
	players *RateLimiter
}

func NewVotes(cfg config.Config, db *gorm.DB, rdb *redis.Client) Votes {
	var capClient *captcha.Client
	if cfg.CaptchaSecret != "" {
		capClient = captcha.NewClient(cfg.CaptchaSecret, data.GetSetting("captcha_verify_url"))
	}
	var geoClient *geoip.Client
	if u := data.GetSetting("geo_api_url"); u != "" {
		geoClient = geoip.NewClient(u)
	}
	return Votes{
		db:      db,
		rdb:     rdb,
		cfg:     cfg,
		captcha: capClient,
		geo:     geoClient,
		players: NewRateLimiter(cfg.VoteCooldown),
	}
}

// playerID returns the uuid identifying this browser, minting a cookie on
// first contact.
func (v Votes) playerID(c *gin.Context) string {
	if id, err := c.Cookie(playerCookie); err == nil && id != "" {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}
	id := uuid.NewString()
	c.SetCookie(playerCookie, id, int((365 * 24 * time.Hour).Seconds()), "/", "", false, true)
	return id
}

func (v Votes) Cast(c *gin.Context) {
	var req struct {
		Value        *int64 `json:"value" binding:"required,min=0,max=1000"`
		CaptchaToken string `json:"captchaToken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	if v.captcha != nil {
		ok, err := v.captcha.Verify(c.Request.Context(), req.CaptchaToken, c.ClientIP())
		if err != nil {
			log.Printf("Captcha verification error: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"err": "captcha verification unavailable"})
			return
		}
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"err": "captcha rejected"})
			return
		}
	}

	playerID := v.playerID(c)
	if wait := v.players.TimeUntilNext(playerID); wait > 0 {
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		c.JSON(http.StatusTooManyRequests, gin.H{"err": "vote cooldown active"})
		return
	}

	allowed, err := data.AllowIP(c.Request.Context(), v.rdb, c.ClientIP(), v.cfg.IPLimit, v.cfg.IPWindow)
	if err != nil {
		log.Printf("IP rate limit check failed: %v", err)
	} else if !allowed {
		c.JSON(http.StatusTooManyRequests, gin.H{"err": "too many votes from this address"})
		return
	}

	vote := types.Vote{
		Value:     *req.Value,
		PlayerID:  playerID,
		IP:        c.ClientIP(),
		CreatedAt: time.Now(),
	}
	if err := v.db.Create(&vote).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	v.players.Mark(playerID)

	// Location is display metadata only; fill it in the background.
	if v.geo != nil {
		go func(id uint64, ip string) {
			loc, err := v.geo.Lookup(context.Background(), ip)
			if err != nil {
				log.Printf("Geo lookup failed for vote %d: %v", id, err)
				return
			}
			if err := v.db.Model(&types.Vote{}).Where("id = ?", id).
				Update("location", loc).Error; err != nil {
				log.Printf("Failed to store location for vote %d: %v", id, err)
			}
		}(vote.ID, vote.IP)
	}

	res, err := v.result(vote.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	payload := map[string]interface{}{
		"id":     vote.ID,
		"value":  vote.Value,
		"player": playerID,
		"winner": strconv.FormatBool(res.IsWinner),
		"total":  res.TotalVotes,
		"time":   vote.CreatedAt.Unix(),
	}
	if res.Average != nil {
		payload["average"] = strconv.FormatFloat(*res.Average, 'f', -1, 64)
	}
	if err := data.PublishVote(context.Background(), v.rdb, payload); err != nil {
		log.Printf("Failed to publish vote %d: %v", vote.ID, err)
	}

	c.JSON(http.StatusCreated, gin.H{"id": vote.ID, "result": res})
}

func (v Votes) Result(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"err": "bad vote id"})
		return
	}

	var vote types.Vote
	if err := v.db.First(&vote, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "vote not found"})
		return
	}

	res, err := v.result(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (v Votes) Stats(c *gin.Context) {
	// Vote id 0 is never assigned, so this reports the shared numbers only.
	res, err := v.result(0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"average":    res.Average,
		"target":     res.Target,
		"totalVotes": res.TotalVotes,
	})
}

func (v Votes) result(voteID uint64) (game.Result, error) {
	votes, constraints, err := data.Snapshot(v.db)
	if err != nil {
		return game.Result{}, err
	}
	return game.Compute(game.Eligible(votes, constraints), voteID), nil
}
