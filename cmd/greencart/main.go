package main

import (
	"log"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/greencart/greencart/internal/config"
	"github.com/greencart/greencart/internal/db"
	"github.com/greencart/greencart/internal/imagegen"
	"github.com/greencart/greencart/internal/llm"
	"github.com/greencart/greencart/internal/llm/claude"
	"github.com/greencart/greencart/internal/llm/groq"
	"github.com/greencart/greencart/internal/logging"
	"github.com/greencart/greencart/internal/report"
	"github.com/greencart/greencart/internal/service"
	"github.com/greencart/greencart/internal/store"
	"github.com/greencart/greencart/internal/vision"
	"github.com/greencart/greencart/internal/web"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	reportStore := store.NewReportStore(database)

	visionModel := newVisionModel(cfg, logger)
	if visionModel == nil {
		return
	}
	describer := vision.NewDescriber(visionModel, logger)

	textModel := groq.NewClient(cfg.GroqAPIKey, cfg.GroqTextModel)
	generator := report.NewGenerator(textModel, logger)

	images := imagegen.NewService(imagegen.NewClient(cfg.FreepikAPIKey), logger)

	session := service.NewSessionService(describer, generator, images, reportStore, logger)
	server := web.NewServer(session, logger)

	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}

func newVisionModel(cfg *config.Config, logger *slog.Logger) llm.VisionCompleter {
	switch cfg.VisionBackend {
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			logger.Error("CLAUDE_API_KEY is required when VISION_BACKEND=claude")
			return nil
		}
		logger.Info("using Claude vision backend", "model", cfg.ClaudeModel)
		return claude.NewClient(cfg.ClaudeAPIKey, cfg.ClaudeModel)
	default:
		logger.Info("using Groq vision backend", "model", cfg.GroqVisionModel)
		return groq.NewClient(cfg.GroqAPIKey, cfg.GroqVisionModel)
	}
}
