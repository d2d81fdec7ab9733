package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"sketch2cad/config"
	app "sketch2cad/internal/application"
	"sketch2cad/internal/container"
	"sketch2cad/internal/domain/entity"
	"sketch2cad/internal/domain/port"
	"sketch2cad/internal/infrastructure/dxf"
	"sketch2cad/internal/infrastructure/notify"
	"sketch2cad/internal/infrastructure/potrace"
	"sketch2cad/internal/infrastructure/vision"
	"sketch2cad/internal/infrastructure/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Следить за каталогом и векторизовать новые эскизы",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		c := container.New(
			vision.NewGoCVPreprocessor(),
			vision.NewGoCVSegmenter(),
			potrace.NewCLITracer(cfg.PotracePath),
			dxf.NewExporter(0, true),
		)

		var notifier port.Notifier
		if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
			n, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
			if err != nil {
				return err
			}
			notifier = n
		}

		run := func(ctx context.Context, inputPath, outputDXF string) entity.Report {
			pcfg := app.DefaultPipelineConfig(inputPath, outputDXF)
			pcfg.RefMM = cfg.RefMM
			pcfg.RefPx = cfg.RefPx
			return c.Pipeline.Run(ctx, pcfg)
		}

		svc := watch.NewService(watch.Config{
			InputDir:       cfg.InputDir,
			OutputDir:      cfg.OutputDir,
			StableChecks:   cfg.StableChecks,
			StableInterval: time.Duration(cfg.StableIntervalMS) * time.Millisecond,
		}, run, notifier)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := svc.Run(ctx); err != nil && ctx.Err() == nil {
			return err
		}
		log.Println("watcher stopped")
		return nil
	},
}
