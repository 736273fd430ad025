package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/address-resolver/app/bootstrap"
	"github.com/address-resolver/app/config"
	"github.com/address-resolver/app/services"
	"github.com/address-resolver/internal/gazetteer"
)

func main() {
	var (
		dir    string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Nạp thư mục dữ liệu tham chiếu vào MongoDB và Meilisearch",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), dir, dryRun)
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&dir, "dir", "", "thư mục dữ liệu tham chiếu, mặc định lấy từ cấu hình")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "chỉ kiểm tra dữ liệu và in báo cáo")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, dir string, dryRun bool) error {
	bootstrap.LoadConfig()
	logger := bootstrap.InitLogger()
	defer logger.Sync()

	if dir == "" {
		dir = config.C.Reference.Dir
	}

	ds, err := gazetteer.NewDirSource(dir).Load(ctx)
	if err != nil {
		return err
	}

	report := gazetteer.Inspect(ds)
	for _, w := range report.Warnings {
		logger.Warn("Near-duplicate reference names",
			zap.String("level", w.Level),
			zap.String("parent", w.Parent),
			zap.String("first", w.First),
			zap.String("second", w.Second))
	}

	if dryRun {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	mongoDB, err := bootstrap.InitMongoDB(ctx, logger)
	if err != nil {
		return err
	}
	if mongoDB == nil {
		return errors.New("seed requires mongo.url")
	}
	defer mongoDB.Client().Disconnect(context.Background())

	store, err := bootstrap.InitReferenceStore(logger)
	if err != nil {
		return err
	}

	result, err := services.NewAdminService(mongoDB, store, logger).SeedReference(ctx, ds)
	if err != nil {
		return err
	}

	logger.Info("Seed completed",
		zap.String("dataset_version", result.DatasetVersion),
		zap.Int("units_processed", result.UnitsProcessed),
		zap.Int("documents_indexed", result.DocumentsIndexed))
	return nil
}
