// Package main is the entry point for the PancyCommunity Go bot.
// It initializes all systems and starts the Discord bot.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/PancyStudios/PancyCommunityGo/internal/commands"
	"github.com/PancyStudios/PancyCommunityGo/internal/commands/utils"
	"github.com/PancyStudios/PancyCommunityGo/internal/economy"
	"github.com/PancyStudios/PancyCommunityGo/internal/events"
	"github.com/PancyStudios/PancyCommunityGo/internal/jobs"
	"github.com/PancyStudios/PancyCommunityGo/internal/leveling"
	"github.com/PancyStudios/PancyCommunityGo/internal/moderation"
	"github.com/PancyStudios/PancyCommunityGo/pkg/config"
	"github.com/PancyStudios/PancyCommunityGo/pkg/database"
	"github.com/PancyStudios/PancyCommunityGo/pkg/discord"
	"github.com/PancyStudios/PancyCommunityGo/pkg/errors"
	"github.com/PancyStudios/PancyCommunityGo/pkg/logger"
	"github.com/PancyStudios/PancyCommunityGo/pkg/mqtt"
	"github.com/PancyStudios/PancyCommunityGo/pkg/store"
	"github.com/PancyStudios/PancyCommunityGo/pkg/web"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Configuración inválida: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	logger.System("Iniciando PancyCommunity Go...", "Main")
	logger.Info(fmt.Sprintf("Directorio de trabajo: %s", getCurrentDir()), "Main")

	// Initialize error handler
	var discordClient *discord.ExtendedClient
	errors.Init(cfg.ErrorWebhook, func() {
		if discordClient != nil {
			_ = discordClient.Stop()
		}
	})

	guild, err := config.Guild()
	if err != nil {
		logger.Critical(fmt.Sprintf("Error cargando %s: %v", cfg.GuildConfigPath, err), "Main")
		os.Exit(1)
	}

	// State, optionally mirrored to MongoDB
	st := store.New()
	var dbStatus func() (string, bool)
	if cfg.PersistenceEnabled() {
		db, err := database.Init(cfg.MongoDBURL, cfg.DBName)
		if err != nil {
			logger.Error(fmt.Sprintf("Error conectando a la base de datos: %v", err), "Main")
		}
		defer func() { _ = db.Disconnect() }()

		repo := database.NewRepository(db)
		if db.Connected() {
			snap, err := repo.LoadSnapshot()
			if err != nil {
				logger.Error(fmt.Sprintf("Error cargando el estado: %v", err), "Main")
			} else {
				st.Load(snap)
			}
		} else {
			logger.Warn("Base de datos offline: se inicia con estado vacío", "Main")
		}
		st.SetPersister(repo)
		dbStatus = db.GetStatus
	} else {
		logger.Warn("mongodbUrl vacío: el estado solo vive en memoria", "Main")
	}

	// Domain services
	ecoSvc := economy.NewService(st,
		economy.WithCatalog(guild.Shop),
		economy.WithDailyReward(guild.Economy.DailyReward),
	)
	levelSvc := leveling.NewService(st, nil)
	pipeline := moderation.NewPipeline(moderation.Config{
		BannedWords:   guild.Moderation.BannedWords,
		LinkWhitelist: guild.Moderation.LinkWhitelist,
		SpamLimit:     guild.Moderation.SpamLimit,
		SpamInterval:  guild.Moderation.SpamInterval(),
	})

	// Initialize MQTT
	var publisher mqtt.Publisher = mqtt.Nop{}
	var mqttClient *mqtt.MqttCommunicator
	var mqttConnected func() bool
	if cfg.MQTTEnabled() {
		mqttClientID := "pancycommunity"
		if !cfg.IsProd() {
			mqttClientID = "pancycommunity_canary"
		}
		mqttClient = mqtt.Init(cfg.MQTTHost, cfg.MQTTPort, cfg.MQTTUser, cfg.MQTTPassword, mqttClientID)
		defer mqttClient.Destroy()

		mqttClient.On("leaderboard", func(map[string]interface{}) (interface{}, error) {
			return ecoSvc.Leaderboard(), nil
		})
		mqttClient.On("levels/+", func(payload map[string]interface{}) (interface{}, error) {
			topic, _ := payload["_topic"].(string)
			return levelSvc.Get(strings.TrimPrefix(topic, "levels/")), nil
		})
		publisher = mqttClient
		mqttConnected = mqttClient.IsConnected
	}

	// Initialize Discord client
	discordClient, err = discord.Init(cfg.BotToken)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "Main")
		os.Exit(1)
	}

	// Initialize web server
	webServer, err := web.Init(web.Options{WebhookURL: cfg.LogsWebhook})
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creando el servidor web: %v", err), "Main")
		os.Exit(1)
	}
	web.SetupAPIRoutes(webServer, web.Backend{
		Bot:            discordClient,
		Economy:        ecoSvc,
		Leveling:       levelSvc,
		StoreStats:     st.Stats,
		DatabaseStatus: dbStatus,
		MQTTConnected:  mqttConnected,
	})
	webServer.StartAsync(cfg.Port)
	defer func() { _ = webServer.Stop() }()

	info := utils.Info{StoreStats: st.Stats, MQTTConnected: mqttConnected}
	if dbStatus != nil {
		info.DatabaseStatus = func() string {
			status, _ := dbStatus()
			return status
		}
	}
	commands.RegisterAll(discordClient, commands.Services{
		Economy:   ecoSvc,
		Leveling:  levelSvc,
		Guild:     guild,
		Publisher: publisher,
		Info:      info,
	})

	events.RegisterAll(discordClient, events.Deps{
		Guild:      guild,
		Economy:    ecoSvc,
		Leveling:   levelSvc,
		Moderation: pipeline,
		Publisher:  publisher,
	})

	// Background jobs
	jobOpts := jobs.Options{
		Sweeper: pipeline,
		Stats:   st.Stats,
		Extra: func(snap *jobs.StatsSnapshot) {
			snap.TrackedSpammers = pipeline.TrackedUsers()
			snap.Guilds = discordClient.GuildCount()
			snap.UptimeSeconds = int64(discordClient.Uptime() / time.Second)
			snap.Events = discordClient.EventHandler.Dispatched()
		},
	}
	if mqttClient != nil {
		jobOpts.Publisher = mqttClient
	}
	scheduler := jobs.NewScheduler(jobOpts)
	if err := scheduler.Start(); err != nil {
		logger.Error(fmt.Sprintf("Error iniciando tareas programadas: %v", err), "Main")
	}
	defer scheduler.Stop()

	// Start the bot
	if err := discordClient.Start(); err != nil {
		logger.Critical(fmt.Sprintf("Error starting Discord client: %v", err), "Main")
		os.Exit(1)
	}
	defer func() { _ = discordClient.Stop() }()

	logger.Success("PancyCommunity Go iniciado correctamente!", "Main")

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.System("Apagando PancyCommunity Go...", "Main")
}

// getCurrentDir returns the current working directory
func getCurrentDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "unknown"
	}
	return dir
}
