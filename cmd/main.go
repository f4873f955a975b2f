package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"dough-vision/config"
	telegram "dough-vision/internal/api"
	"dough-vision/internal/container"
	"dough-vision/internal/domain/port"
	"dough-vision/internal/infrastructure/storage"
	"dough-vision/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Правила и калибровка из прошлой сессии
	ruleStore := storage.NewJSONRuleStore(cfg.RulesPath)
	rules, err := ruleStore.LoadRules(ctx)
	if err != nil {
		log.Printf("Error loading rules, starting untrained: %v", err)
		rules = nil
	}

	sessionStore := storage.NewJSONSessionStore(cfg.SessionPath)
	session, err := sessionStore.LoadSession(ctx)
	if err != nil {
		log.Printf("Error loading session, using defaults: %v", err)
	}
	if cfg.FastMode != nil {
		session.FastMode = *cfg.FastMode
	}

	// История проверок
	var results port.ResultRepository = storage.NewMemoryResultRepository()
	if cfg.HistoryDB != "" {
		db, err := storage.NewSQLiteResultRepository(cfg.HistoryDB)
		if err != nil {
			log.Fatalf("Failed to open history database: %v", err)
		}
		defer db.Close()
		results = db
	}

	// Собираем сервисы приложения
	appContainer := container.New(container.Stores{
		Users:    storage.NewMemoryUserRepository(),
		Model:    storage.NewMemoryModelRepository(rules, session),
		Rules:    ruleStore,
		Sessions: sessionStore,
		Results:  results,
	}, vision.NewRuleDetector(), cfg.InferenceOptions())

	// Создаём бота
	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	log.Println("Bot is running...")
	if err := bot.Run(ctx); err != nil {
		log.Fatalf("Bot error: %v", err)
	}
}
