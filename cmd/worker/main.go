package main

import (
	"context"
	"log/slog"
	"os"

	"tour-booking/cmd/bootstrap"
	"tour-booking/internal/handler/middleware"
	"tour-booking/internal/infra/notify"
	"tour-booking/internal/pkg/config"

	"github.com/hibiken/asynq"
)

// The worker drains the email queue. It shares the API's configuration but
// none of its HTTP or database wiring.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("設定の読み込みに失敗しました", "error", err)
		os.Exit(1)
	}
	logger := middleware.NewLogger(cfg.Log).GetSlogLogger()

	srv := asynq.NewServer(
		bootstrap.RedisClientOpt(cfg.Queue),
		asynq.Config{
			Concurrency: cfg.Queue.Concurrency,
			Queues: map[string]int{
				notify.QueueEmails: 1,
			},
			Logger: newAsynqLogger(logger),
			ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
				logger.Warn("email task failed", "type", task.Type(), "error", err)
			}),
		},
	)

	mux := notify.NewServeMux(notify.NewSMTPMailer(cfg.Mail))

	logger.Info("📨 ワーカーを起動します", "redis", cfg.Queue.RedisAddr, "concurrency", cfg.Queue.Concurrency)
	if err := srv.Run(mux); err != nil {
		logger.Error("ワーカーの実行に失敗しました", "error", err)
		os.Exit(1)
	}
}
