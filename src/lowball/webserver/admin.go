package webserver

import (
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	"github.com/lowball-game/lowball/src/lowball/types"
	"github.com/lowball-game/lowball/src/shared/game"
)

type Admin struct {
	db        *gorm.DB
	sanitizer *bluemonday.Policy
}

func NewAdmin(db *gorm.DB) Admin {
	return Admin{db: db, sanitizer: bluemonday.StrictPolicy()}
}

func (a Admin) ListConstraints(c *gin.Context) {
	var cons []types.TimeConstraint
	if err := a.db.Order("id asc").Find(&cons).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cons)
}

func (a Admin) CreateConstraint(c *gin.Context) {
	var req struct {
		StartAt time.Time `json:"startAt" binding:"required"`
		EndAt   time.Time `json:"endAt" binding:"required"`
		Kind    string    `json:"kind" binding:"required,oneof=include exclude"`
		Enabled *bool     `json:"enabled"`
		Note    string    `json:"note" binding:"max=255"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	if req.EndAt.Before(req.StartAt) {
		c.JSON(http.StatusBadRequest, gin.H{"err": "endAt before startAt"})
		return
	}

	note := a.sanitizer.Sanitize(req.Note)
	if !utf8.ValidString(note) {
		c.JSON(http.StatusBadRequest, gin.H{"err": "invalid characters in note"})
		return
	}

	kindMap := map[string]int8{"include": game.KindInclude, "exclude": game.KindExclude}
	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	con := types.TimeConstraint{
		StartAt: req.StartAt,
		EndAt:   req.EndAt,
		Kind:    kindMap[req.Kind],
		Enabled: enabled,
		Note:    note,
	}
	if err := a.db.Create(&con).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, con)
}

func (a Admin) ToggleConstraint(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"err": "bad constraint id"})
		return
	}

	var con types.TimeConstraint
	if err := a.db.First(&con, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "constraint not found"})
		return
	}

	if err := a.db.Model(&con).Update("enabled", !con.Enabled).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	con.Enabled = !con.Enabled
	c.JSON(http.StatusOK, con)
}

func (a Admin) DeleteConstraint(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"err": "bad constraint id"})
		return
	}

	res := a.db.Delete(&types.TimeConstraint{}, id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"err": "constraint not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (a Admin) ListVotes(c *gin.Context) {
	var votes []types.Vote
	if err := a.db.Order("id asc").Find(&votes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, votes)
}

func (a Admin) DeleteVote(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"err": "bad vote id"})
		return
	}

	res := a.db.Delete(&types.Vote{}, id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"err": "vote not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
