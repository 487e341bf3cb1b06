package web

import (
	"net/http"
	"time"

	"github.com/PancyStudios/PancyCommunityGo/internal/economy"
	"github.com/PancyStudios/PancyCommunityGo/internal/leveling"
	"github.com/PancyStudios/PancyCommunityGo/pkg/store"
	"github.com/bwmarrin/discordgo"
	"github.com/gin-gonic/gin"
)

// Bot is the part of the Discord client the API reports on
type Bot interface {
	IsReady() bool
	GuildCount() int
	Uptime() time.Duration
	BotUser() *discordgo.User
}

// Backend holds what the API reads from. Nil status functions are reported
// as disabled.
type Backend struct {
	Bot            Bot
	Economy        *economy.Service
	Leveling       *leveling.Service
	StoreStats     func() store.Stats
	DatabaseStatus func() (string, bool)
	MQTTConnected  func() bool
}

type api struct {
	Backend
}

// SetupAPIRoutes sets up the API routes
func SetupAPIRoutes(s *Server, b Backend) {
	a := &api{Backend: b}
	group := s.Group("/api")
	{
		group.GET("/health", a.health)
		group.GET("/status", a.status)
		group.GET("/bot", a.botInfo)
		group.GET("/leaderboard", a.leaderboard)
		group.GET("/levels/:userId", a.level)
		group.GET("/shop", a.shop)
	}
}

// health returns a simple health check response
func (a *api) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "PancyCommunity Go is running",
	})
}

// status returns the bot, database and MQTT status
func (a *api) status(c *gin.Context) {
	dbStatus, dbOnline := "⚪ | Solo memoria", false
	if a.DatabaseStatus != nil {
		dbStatus, dbOnline = a.DatabaseStatus()
	}

	mqtt := gin.H{"enabled": a.MQTTConnected != nil, "isConnected": false}
	if a.MQTTConnected != nil {
		mqtt["isConnected"] = a.MQTTConnected()
	}

	resp := gin.H{
		"status": "ok",
		"database": gin.H{
			"enabled":  a.DatabaseStatus != nil,
			"status":   dbStatus,
			"isOnline": dbOnline,
		},
		"bot": gin.H{
			"isOnline": a.Bot != nil && a.Bot.IsReady(),
		},
		"mqtt": mqtt,
	}
	if a.StoreStats != nil {
		resp["store"] = a.StoreStats()
	}
	c.JSON(http.StatusOK, resp)
}

// botInfo returns information about the bot
func (a *api) botInfo(c *gin.Context) {
	if a.Bot == nil || !a.Bot.IsReady() || a.Bot.BotUser() == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Bot Offline",
			"message": "El bot no está disponible en este momento.",
		})
		return
	}

	user := a.Bot.BotUser()
	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"avatar":   user.Avatar,
		"guilds":   a.Bot.GuildCount(),
		"uptime":   a.Bot.Uptime().Round(time.Second).String(),
		"isReady":  true,
	})
}

// leaderboard returns the richest accounts
func (a *api) leaderboard(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"leaderboard": a.Economy.Leaderboard()})
}

// level returns the progress of a user, level 1 when unknown
func (a *api) level(c *gin.Context) {
	c.JSON(http.StatusOK, a.Leveling.Get(c.Param("userId")))
}

// shop returns the catalog
func (a *api) shop(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": a.Economy.Shop()})
}
