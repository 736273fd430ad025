package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/address-resolver/app/bootstrap"
	"github.com/address-resolver/app/config"
	"github.com/address-resolver/app/models"
	"github.com/address-resolver/app/services"
)

type workerFlags struct {
	input   string
	output  string
	gzip    bool
	workers int
	refDir  string
}

func main() {
	var flags workerFlags

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Phân giải địa chỉ hàng loạt từ file, ghi kết quả NDJSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, flags)
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVarP(&flags.input, "input", "i", "-", "file địa chỉ, mỗi dòng một địa chỉ (- là stdin)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "-", "file kết quả NDJSON (- là stdout)")
	cmd.Flags().BoolVar(&flags.gzip, "gzip", false, "nén kết quả bằng gzip")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "số worker song song, 0 dùng cấu hình")
	cmd.Flags().StringVar(&flags.refDir, "reference-dir", "", "thư mục dữ liệu tham chiếu, ghi đè cấu hình")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, flags workerFlags) error {
	bootstrap.LoadConfig()
	logger := bootstrap.InitLogger()
	defer logger.Sync()

	cfg := config.C
	if flags.workers > 0 {
		cfg.Batch.Workers = flags.workers
	}
	if flags.refDir != "" {
		cfg.Reference = config.ReferenceCfg{Source: "dir", Dir: flags.refDir}
	}

	mongoDB, err := bootstrap.InitMongoDB(ctx, logger)
	if err != nil {
		return err
	}
	store, err := bootstrap.InitReferenceStore(logger)
	if err != nil {
		return err
	}
	source, err := bootstrap.SelectSource(cfg.Reference, mongoDB, store)
	if err != nil {
		return err
	}

	var aliases services.AliasProvider
	if mongoDB != nil {
		aliases = services.NewAdminService(mongoDB, store, logger)
	}

	svc, err := services.NewAddressService(source, nil, aliases, bootstrap.ServiceOptions(cfg), logger)
	if err != nil {
		return err
	}
	defer svc.Shutdown()

	info, err := svc.Reload(ctx)
	if err != nil {
		return err
	}

	addresses, err := readAddresses(flags.input)
	if err != nil {
		return err
	}

	start := time.Now()
	results, err := svc.ResolveBatch(ctx, addresses)
	if err != nil {
		return err
	}

	if err := writeResults(flags.output, flags.gzip, results); err != nil {
		return err
	}

	logger.Info("Batch completed",
		zap.String("dataset_version", info.Version),
		zap.Int("total_addresses", len(addresses)),
		zap.Any("status", countStatus(results)),
		zap.Duration("duration", time.Since(start)))
	return ctx.Err()
}

func readAddresses(path string) ([]string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	var addresses []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		addresses = append(addresses, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return addresses, nil
}

func writeResults(path string, gzipEnabled bool, results []models.AddressResult) error {
	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	bw := bufio.NewWriter(w)
	write := services.WriteNDJSON
	if gzipEnabled {
		write = services.WriteNDJSONGzip
	}
	if err := write(bw, results); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return bw.Flush()
}

func countStatus(results []models.AddressResult) map[string]int {
	counts := make(map[string]int)
	for i := range results {
		counts[results[i].Status]++
	}
	return counts
}
