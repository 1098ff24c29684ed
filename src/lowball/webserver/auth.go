package webserver

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/lowball-game/lowball/src/lowball/config"
)

type Auth struct {
	passHash  []byte
	jwtSecret []byte
}

func NewAuth(cfg config.Config) Auth {
	return Auth{passHash: []byte(cfg.AdminPassHash), jwtSecret: []byte(cfg.JWTSecret)}
}

func (a Auth) Login(c *gin.Context) {
	var req struct {
		Password string `json:"password" binding:"required,max=128"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	if len(a.passHash) == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"err": "admin login not configured"})
		return
	}

	if err := bcrypt.CompareHashAndPassword(a.passHash, []byte(req.Password)); err != nil {
		log.Printf("Admin login failed from IP %s", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"err": "bad password"})
		return
	}

	token, err := issueJWT(a.jwtSecret)
	if err != nil {
		log.Printf("Failed to issue JWT: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "failed to issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func issueJWT(secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "admin",
		"exp":  time.Now().Add(12 * time.Hour).Unix(),
	})
	return token.SignedString(secret)
}
