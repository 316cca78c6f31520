package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"tour-booking/internal/handler/middleware"
	"tour-booking/internal/pkg/config"

	"ariga.io/atlas-go-sdk/atlasexec"
)

// Applies pending files from the migrations directory using the atlas CLI,
// which must be on PATH (or given with -atlas).
func main() {
	dir := flag.String("dir", "file://migrations", "migration directory URL")
	atlasBin := flag.String("atlas", "atlas", "path to the atlas binary")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall timeout")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("設定の読み込みに失敗しました", "error", err)
		os.Exit(1)
	}
	logger := middleware.NewLogger(cfg.Log).GetSlogLogger()

	client, err := atlasexec.NewClient(".", *atlasBin)
	if err != nil {
		logger.Error("atlas クライアントの初期化に失敗しました", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	res, err := client.MigrateApply(ctx, &atlasexec.MigrateApplyParams{
		URL:    cfg.DB.BuildDSN(),
		DirURL: *dir,
	})
	if err != nil {
		logger.Error("マイグレーションの適用に失敗しました", "error", err)
		os.Exit(1)
	}

	logger.Info("マイグレーションを適用しました",
		"applied", len(res.Applied),
		"current", res.Current,
		"target", res.Target,
	)
}
