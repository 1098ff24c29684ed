package webserver

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/lowball-game/lowball/src/lowball/config"
)

func attachRoutes(r *gin.Engine, cfg config.Config, db *gorm.DB, rdb *redis.Client) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	voteH := NewVotes(cfg, db, rdb)
	authH := NewAuth(cfg)
	adminH := NewAdmin(db)

	v1 := r.Group("/v1")
	{
		v1.POST("/votes", voteH.Cast)
		v1.GET("/votes/:id/result", voteH.Result)
		v1.GET("/stats", voteH.Stats)

		v1.POST("/admin/login", authH.Login)

		admin := v1.Group("/admin")
		admin.Use(JWTMiddleware([]byte(cfg.JWTSecret)))
		{
			admin.GET("/constraints", adminH.ListConstraints)
			admin.POST("/constraints", adminH.CreateConstraint)
			admin.POST("/constraints/:id/toggle", adminH.ToggleConstraint)
			admin.DELETE("/constraints/:id", adminH.DeleteConstraint)
			admin.GET("/votes", adminH.ListVotes)
			admin.DELETE("/votes/:id", adminH.DeleteVote)
		}
	}
}
