package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/h918m/mazmorra/internal/agent"
	heroapi "github.com/h918m/mazmorra/internal/api"
	"github.com/h918m/mazmorra/internal/auth"
	"github.com/h918m/mazmorra/internal/config"
	"github.com/h918m/mazmorra/internal/domain"
	"github.com/h918m/mazmorra/internal/engine"
	"github.com/h918m/mazmorra/internal/infrastructure/storage"
	"github.com/h918m/mazmorra/internal/server"
	"github.com/h918m/mazmorra/internal/version"
	"github.com/h918m/mazmorra/pkg/logger"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 1. Флаги
	var configPath, replayPath string
	var bots, botProgress int
	flag.StringVar(&configPath, "config", "", "Path to YAML config (default $"+config.EnvConfigPath+")")
	flag.StringVar(&replayPath, "replay", "", "Path to .mzrp replay file to simulate")
	flag.IntVar(&bots, "bots", 0, "Number of headless bots to start")
	flag.IntVar(&botProgress, "bot-progress", 2, "Dungeon progress the bots join")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log := logger.Component("main")
	log.Info("Starting Mazmorra...")
	log.Info(version.String())

	domain.LevelCoefficient = cfg.Game.LevelCoefficient
	domain.StrictInvariants = cfg.Game.StrictInvariants

	gameCfg := engineConfig(cfg.Game)

	// РЕЖИМ РЕПЛЕЯ
	if replayPath != "" {
		if err := runReplay(replayPath, gameCfg, log); err != nil {
			log.WithError(err).Fatal("Replay failed")
		}
		return
	}
	log.WithField("seed", gameCfg.Seed).Info("Using master seed")

	// 2. Инфраструктура
	repo, err := storage.Open(storage.Options{
		Driver:     cfg.Storage.Driver,
		BadgerPath: cfg.Storage.BadgerPath,
		Redis: storage.RedisConfig{
			Addr:      cfg.Storage.RedisAddr,
			DB:        cfg.Storage.RedisDB,
			KeyPrefix: cfg.Storage.RedisPrefix,
		},
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to open hero storage")
	}

	issuer, err := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		log.WithError(err).Fatal("Failed to create token issuer")
	}

	var replays *storage.ReplayService
	if gameCfg.ReplayDir != "" {
		if replays, err = storage.NewReplayService(gameCfg.ReplayDir); err != nil {
			log.WithError(err).Fatal("Failed to prepare replay dir")
		}
	}

	// 3. Ядро
	game := engine.NewService(gameCfg, repo, issuer, replays, engine.NewMetrics(nil))

	// 4. Транспорт: websocket + служебные ручки, REST героев
	srv := server.New(game, cfg.Server.Port, cfg.Server.AllowedOrigins)
	go func() {
		if err := srv.Run(); err != nil {
			log.WithError(err).Fatal("Server start error")
		}
	}()

	var apiSrv *http.Server
	if cfg.Server.APIPort > 0 {
		apiSrv = &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.APIPort),
			Handler:           heroapi.NewRestServer(repo, issuer, cfg.Server.AllowedOrigins).Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.WithField("port", cfg.Server.APIPort).Info("Hero API listening")
			if err := apiSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Fatal("Hero API start error")
			}
		}()
	}

	// 5. Боты
	botCtx, stopBots := context.WithCancel(context.Background())
	var botsWG sync.WaitGroup
	for i := 0; i < bots; i++ {
		bot, err := newBot(repo, issuer, game, i, botProgress)
		if err != nil {
			log.WithError(err).Error("Failed to create bot")
			continue
		}
		botsWG.Add(1)
		go func() {
			defer botsWG.Done()
			if err := bot.Run(botCtx); err != nil {
				log.WithError(err).WithField("client_id", bot.ClientID).Warn("Bot stopped")
			}
		}()
	}

	// Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	stopBots()
	botsWG.Wait()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("Server shutdown")
	}
	if apiSrv != nil {
		if err := apiSrv.Shutdown(ctx); err != nil {
			log.WithError(err).Warn("Hero API shutdown")
		}
	}
	// Сохраняем героев и реплеи всех открытых комнат
	game.Shutdown(ctx)
	if err := repo.Close(); err != nil {
		log.WithError(err).Warn("Hero storage close")
	}

	log.Info("Done.")
}

func engineConfig(g config.GameConfig) engine.Config {
	cfg := engine.NewConfig()
	if g.Seed != "" {
		cfg.Seed = g.Seed
	}
	cfg.TickRate = g.TickRate
	cfg.MaxClients = g.MaxClients
	cfg.DisposeTimeout = g.DisposeTimeout
	cfg.DeadDisposeTimeout = g.DeadDisposeTimeout
	cfg.PvP = g.PvP
	cfg.ReplayDir = g.ReplayDir
	return cfg
}

// runReplay прогоняет записанную сессию и печатает итог
func runReplay(path string, cfg engine.Config, log *logrus.Entry) error {
	log.WithField("path", path).Info("Mode: Replay Simulation")

	session, err := storage.LoadReplay(path)
	if err != nil {
		return err
	}
	room, err := engine.PlayReplay(session, cfg, engine.NewMetrics(nil))
	if err != nil {
		return err
	}
	defer room.Close()

	log.WithFields(logrus.Fields{
		"room":     session.Room,
		"progress": session.Progress,
		"seed":     session.Seed,
		"actions":  len(session.Actions),
		"tick":     room.Tick,
		"entities": len(room.World.Entities()),
	}).Info("Replay finished")
	return nil
}

// newBot заводит герою-боту запись в хранилище и токен
func newBot(repo storage.HeroRepository, issuer *auth.Issuer, game *engine.GameService, n, progress int) (*agent.Bot, error) {
	hero := domain.NewHero(uuid.NewString(), fmt.Sprintf("Bot %d", n+1), domain.AttrStrength)
	if err := repo.Save(context.Background(), hero); err != nil {
		return nil, err
	}
	token, err := issuer.Issue(hero.ID)
	if err != nil {
		return nil, err
	}
	return agent.NewBot(fmt.Sprintf("bot-%d", n+1), token, progress, game), nil
}
