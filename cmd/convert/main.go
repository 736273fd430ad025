package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/address-resolver/app/bootstrap"
	"github.com/address-resolver/app/config"
	"github.com/address-resolver/internal/gazetteer"
)

func main() {
	var (
		input  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Chuyển file export đơn vị hành chính dạng JSON thành thư mục dữ liệu tham chiếu",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), input, output)
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVarP(&input, "input", "i", "storage/address.json", "file JSON chứa danh sách đơn vị hành chính")
	cmd.Flags().StringVarP(&output, "output", "o", "", "thư mục đích, mặc định lấy từ cấu hình")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, input, output string) error {
	bootstrap.LoadConfig()
	logger := bootstrap.InitLogger()
	defer logger.Sync()

	if output == "" {
		output = config.C.Reference.Dir
	}

	content, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}

	var units []gazetteer.SourceUnit
	if err := json.Unmarshal(content, &units); err != nil {
		return fmt.Errorf("parse %s: %w", input, err)
	}

	ds, stats := gazetteer.FromUnits(units)
	if err := ds.Validate(); err != nil {
		return err
	}
	if err := gazetteer.WriteDir(ds, output); err != nil {
		return err
	}

	// đọc lại để chắc chắn thư mục vừa ghi nạp được
	loaded, err := gazetteer.NewDirSource(output).Load(ctx)
	if err != nil {
		return err
	}

	logger.Info("Convert completed",
		zap.String("output", output),
		zap.String("dataset_version", loaded.Version()),
		zap.Int("provinces", stats.Provinces),
		zap.Int("districts", stats.Districts),
		zap.Int("wards", stats.Wards),
		zap.Int("orphans", stats.Orphans),
		zap.Int("aliases", len(ds.Aliases)))
	return nil
}
