package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"quizfit/internal/cache"
	"quizfit/internal/config"
	"quizfit/internal/db"
	"quizfit/internal/logger"
	"quizfit/internal/model"
	"quizfit/internal/repository"
	"quizfit/internal/service"
)

const fetchTimeout = 30 * time.Second

// SeedQuestion mirrors a question in the seed file.
type SeedQuestion struct {
	QuestionText string   `json:"questionText"`
	Options      []string `json:"options"`
}

// SeedQuiz mirrors a quiz in the seed file.
type SeedQuiz struct {
	Title     string         `json:"title"`
	Level     string         `json:"level"`
	Questions []SeedQuestion `json:"questions"`
}

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFile)
	slog.SetDefault(log)

	source := os.Getenv("SEED_SOURCE")
	if len(os.Args) > 1 {
		source = os.Args[1]
	}
	if source == "" {
		log.Error("usage: seed <file|url> (or set SEED_SOURCE)")
		os.Exit(2)
	}

	gormDB, err := db.New(cfg)
	if err != nil {
		log.Error("connect to database", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(gormDB, false); err != nil {
		log.Error("run migrations", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("loading quizzes", "source", source)
	raw, err := loadSeed(ctx, source)
	if err != nil {
		log.Error("load quizzes", "error", err)
		os.Exit(1)
	}

	quizzes, invalid := toModels(raw)
	if invalid > 0 {
		log.Warn("skipped invalid quizzes", "count", invalid)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	quizService := service.NewQuizService(repository.NewQuizRepository(gormDB), cacheClient)
	created, skipped, err := quizService.Seed(ctx, quizzes)
	if err != nil {
		log.Error("seed quizzes", "created", created, "skipped", skipped, "error", err)
		os.Exit(1)
	}

	log.Info("seed completed", "created", created, "existing", skipped, "invalid", invalid)
}

// loadSeed reads a JSON array of quizzes from an http(s) URL or a local file.
func loadSeed(ctx context.Context, source string) ([]SeedQuiz, error) {
	var body io.ReadCloser
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", source, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch %s: status code %d", source, resp.StatusCode)
		}
		body = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", source, err)
		}
		body = f
	}
	defer body.Close()

	var quizzes []SeedQuiz
	if err := json.NewDecoder(body).Decode(&quizzes); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	return quizzes, nil
}

// toModels converts seed entries, dropping those without a title, level or questions.
func toModels(raw []SeedQuiz) (quizzes []model.Quiz, invalid int) {
	quizzes = make([]model.Quiz, 0, len(raw))
	for _, item := range raw {
		if strings.TrimSpace(item.Title) == "" || strings.TrimSpace(item.Level) == "" || len(item.Questions) == 0 {
			invalid++
			continue
		}
		quiz := model.Quiz{Title: item.Title, Level: item.Level}
		for _, q := range item.Questions {
			options := q.Options
			if options == nil {
				options = []string{}
			}
			quiz.Questions = append(quiz.Questions, model.Question{QuestionText: q.QuestionText, Options: options})
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, invalid
}
