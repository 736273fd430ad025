package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/address-resolver/app/models"
	"github.com/address-resolver/helpers/utils"
	"github.com/address-resolver/internal/gazetteer"
	"github.com/address-resolver/internal/normalizer"
	"github.com/address-resolver/internal/parser"
)

var (
	// ErrJobNotFound job không tồn tại hoặc đã bị dọn
	ErrJobNotFound = errors.New("job not found")
	// ErrJobRunning job chưa xong nên chưa có kết quả
	ErrJobRunning = errors.New("job is still running")
	// ErrNotReady dữ liệu tham chiếu chưa được nạp
	ErrNotReady = errors.New("reference data not loaded")
	// ErrCacheDisabled service chạy không có cache
	ErrCacheDisabled = errors.New("cache disabled")
)

// jobChunk số địa chỉ xử lý giữa hai lần cập nhật tiến độ
const jobChunk = 256

// AliasProvider nguồn alias học được, gộp vào bảng viết tắt khi nạp lại
type AliasProvider interface {
	LearnedAliases(ctx context.Context) (map[string]string, error)
}

// ServiceOptions cấu hình engine cho AddressService
type ServiceOptions struct {
	Threshold  float64
	TieBreaker string
	Batch      parser.BatchOptions
	MaxJobs    int
}

// engine resolver cùng phiên bản dữ liệu, thay nguyên khối khi nạp lại
type engine struct {
	resolver *parser.Resolver
	version  string
	source   string
	report   gazetteer.Report
	loadedAt time.Time
}

// ReloadInfo thông tin sau một lần nạp lại
type ReloadInfo struct {
	PreviousVersion string
	Version         string
	Counts          map[string]int
	Warnings        int
}

// AddressService service phân giải địa chỉ
type AddressService struct {
	engine   atomic.Pointer[engine]
	source   gazetteer.Source
	variants gazetteer.Variants
	aliases  AliasProvider
	cache    ICacheService
	opts     ServiceOptions
	logger   *zap.Logger

	startTime time.Time
	reloadMu  sync.Mutex

	// Job management
	mu         sync.RWMutex
	jobs       map[string]*models.BatchJob
	jobResults map[string][]models.AddressResult
	jobOrder   []string
	jobCtx     context.Context
	jobCancel  context.CancelFunc
	jobWG      sync.WaitGroup
}

// NewAddressService tạo mới AddressService, cần gọi Reload trước khi phân giải
func NewAddressService(source gazetteer.Source, cache ICacheService, aliases AliasProvider, opts ServiceOptions, logger *zap.Logger) (*AddressService, error) {
	variants, err := gazetteer.DefaultVariants()
	if err != nil {
		return nil, fmt.Errorf("load variant tables: %w", err)
	}
	if _, err := parser.TieBreakerByName(opts.TieBreaker); err != nil {
		return nil, err
	}
	if opts.MaxJobs <= 0 {
		opts.MaxJobs = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	jobCtx, jobCancel := context.WithCancel(context.Background())
	return &AddressService{
		source:     source,
		variants:   variants,
		aliases:    aliases,
		cache:      cache,
		opts:       opts,
		logger:     logger,
		startTime:  time.Now(),
		jobs:       make(map[string]*models.BatchJob),
		jobResults: make(map[string][]models.AddressResult),
		jobCtx:     jobCtx,
		jobCancel:  jobCancel,
	}, nil
}

// Reload nạp lại dữ liệu tham chiếu và thay resolver mà không chặn request đang chạy
func (as *AddressService) Reload(ctx context.Context) (*ReloadInfo, error) {
	as.reloadMu.Lock()
	defer as.reloadMu.Unlock()

	ds, err := as.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load reference dataset: %w", err)
	}

	if as.aliases != nil {
		learned, err := as.aliases.LearnedAliases(ctx)
		if err != nil {
			as.logger.Warn("Không lấy được learned aliases", zap.Error(err))
		}
		ds.Aliases = normalizer.MergeAliases(ds.Aliases, learned)
	}

	idx, err := ds.BuildIndex(as.variants)
	if err != nil {
		return nil, err
	}

	rules, err := normalizer.LoadRulesConfig()
	if err != nil {
		return nil, err
	}
	tb, err := parser.TieBreakerByName(as.opts.TieBreaker)
	if err != nil {
		return nil, err
	}

	norm := normalizer.NewNormalizer(normalizer.MergeAliases(rules.ProvinceAbbreviations, ds.Aliases))
	next := &engine{
		resolver: parser.NewResolver(idx, norm, as.logger,
			parser.WithThreshold(as.opts.Threshold),
			parser.WithTieBreaker(tb)),
		version:  ds.Version(),
		source:   ds.Source,
		report:   gazetteer.Inspect(ds),
		loadedAt: time.Now(),
	}

	info := &ReloadInfo{
		Version:  next.version,
		Counts:   idx.Counts(),
		Warnings: len(next.report.Warnings),
	}
	if prev := as.engine.Swap(next); prev != nil {
		info.PreviousVersion = prev.version
	}

	if as.cache != nil && info.PreviousVersion != "" && info.PreviousVersion != info.Version {
		if err := as.cache.InvalidateByDatasetVersion(ctx, info.Version); err != nil {
			as.logger.Warn("Lỗi invalidate cache sau khi nạp lại", zap.Error(err))
		}
	}

	as.logger.Info("Đã nạp dữ liệu tham chiếu",
		zap.String("source", next.source),
		zap.String("dataset_version", info.Version),
		zap.String("previous_version", info.PreviousVersion),
		zap.Any("counts", info.Counts),
		zap.Int("warnings", info.Warnings))
	return info, nil
}

func (as *AddressService) current() (*engine, error) {
	eng := as.engine.Load()
	if eng == nil {
		return nil, ErrNotReady
	}
	return eng, nil
}

// Version phiên bản dữ liệu tham chiếu đang dùng
func (as *AddressService) Version() string {
	if eng := as.engine.Load(); eng != nil {
		return eng.version
	}
	return ""
}

// Ready dữ liệu tham chiếu đã được nạp
func (as *AddressService) Ready() bool {
	return as.engine.Load() != nil
}

// CacheEntry trạng thái cache của một địa chỉ theo phiên bản dữ liệu hiện tại
type CacheEntry struct {
	Key    string
	Exists bool
	TTL    time.Duration
}

func cacheKey(version, fingerprint string) string {
	return version + ":" + fingerprint
}

// LookupCache kiểm tra địa chỉ đã có kết quả trong cache chưa và thời gian còn lại
func (as *AddressService) LookupCache(ctx context.Context, raw string) (*CacheEntry, error) {
	eng, err := as.current()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw) == "" {
		return nil, parser.ErrInvalidInput
	}
	if as.cache == nil {
		return nil, ErrCacheDisabled
	}

	entry := &CacheEntry{Key: cacheKey(eng.version, utils.Fingerprint(raw))}
	if entry.Exists, err = as.cache.Exists(ctx, entry.Key); err != nil {
		return nil, err
	}
	if entry.Exists {
		if entry.TTL, err = as.cache.GetTTL(ctx, entry.Key); err != nil {
			return nil, err
		}
	}
	return entry, nil
}

// Resolve phân giải một địa chỉ, dùng cache nếu được bật
func (as *AddressService) Resolve(ctx context.Context, raw string, useCache bool) (*models.AddressResult, bool, error) {
	eng, err := as.current()
	if err != nil {
		return nil, false, err
	}
	if strings.TrimSpace(raw) == "" {
		return nil, false, parser.ErrInvalidInput
	}

	fingerprint := utils.Fingerprint(raw)
	key := cacheKey(eng.version, fingerprint)
	useCache = useCache && as.cache != nil

	if useCache {
		cached, err := as.cache.Get(ctx, key)
		if err == nil {
			return cached, true, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			as.logger.Warn("Lỗi đọc cache", zap.Error(err))
		}
	}

	rctx := ctx
	if as.opts.Batch.Timeout > 0 {
		var cancel context.CancelFunc
		rctx, cancel = context.WithTimeout(ctx, as.opts.Batch.Timeout)
		defer cancel()
	}

	res, err := eng.resolver.Process(rctx, raw)
	if err != nil {
		return nil, false, err
	}

	result := toAddressResult(raw, res, eng.version)
	result.Fingerprint = fingerprint
	if useCache {
		if err := as.cache.Set(ctx, key, result); err != nil {
			as.logger.Warn("Lỗi ghi cache", zap.Error(err))
		}
	}
	return result, false, nil
}

// ResolveBatch phân giải nhiều địa chỉ song song, giữ nguyên thứ tự đầu vào
func (as *AddressService) ResolveBatch(ctx context.Context, addresses []string) ([]models.AddressResult, error) {
	eng, err := as.current()
	if err != nil {
		return nil, err
	}
	return resolveWith(ctx, eng, addresses, as.opts.Batch), nil
}

func resolveWith(ctx context.Context, eng *engine, addresses []string, opts parser.BatchOptions) []models.AddressResult {
	parsed := eng.resolver.ProcessBatch(ctx, addresses, opts)

	out := make([]models.AddressResult, len(addresses))
	for i, res := range parsed {
		out[i] = *toAddressResult(addresses[i], res, eng.version)
		out[i].Fingerprint = utils.Fingerprint(addresses[i])
		if strings.TrimSpace(addresses[i]) == "" {
			out[i].Status = models.StatusInvalid
			out[i].Error = parser.ErrInvalidInput.Error()
		}
	}
	return out
}

func toAddressResult(raw string, res parser.Result, version string) *models.AddressResult {
	result := &models.AddressResult{
		Raw:            raw,
		Province:       res.Province,
		District:       res.District,
		Ward:           res.Ward,
		DistrictAbsent: res.DistrictAbsent,
		DatasetVersion: version,
	}
	for _, m := range res.Matches {
		result.Matches = append(result.Matches, models.LevelMatch{
			Level:    m.Level,
			Name:     m.Name,
			Strategy: string(m.Strategy),
			Distance: m.Distance,
			Consumed: m.Consumed,
		})
	}
	result.Status = result.ComputeStatus()
	return result
}

// SubmitJob tạo job chạy nền cho danh sách địa chỉ
func (as *AddressService) SubmitJob(addresses []string) (string, error) {
	eng, err := as.current()
	if err != nil {
		return "", err
	}

	jobID := utils.GenerateID()
	job := models.NewBatchJob(jobID, len(addresses), eng.version)

	as.mu.Lock()
	as.jobs[jobID] = job
	as.jobOrder = append(as.jobOrder, jobID)
	as.evictJobsLocked()
	as.mu.Unlock()

	as.jobWG.Add(1)
	go func() {
		defer as.jobWG.Done()
		as.runJob(eng, jobID, addresses)
	}()

	return jobID, nil
}

// runJob xử lý job theo từng đoạn để cập nhật tiến độ
func (as *AddressService) runJob(eng *engine, jobID string, addresses []string) {
	as.updateJob(jobID, func(j *models.BatchJob) { j.Status = models.JobStatusRunning })

	results := make([]models.AddressResult, 0, len(addresses))
	for start := 0; start < len(addresses); start += jobChunk {
		if err := as.jobCtx.Err(); err != nil {
			as.updateJob(jobID, func(j *models.BatchJob) { j.Finish(err) })
			return
		}

		end := start + jobChunk
		if end > len(addresses) {
			end = len(addresses)
		}
		results = append(results, resolveWith(as.jobCtx, eng, addresses[start:end], as.opts.Batch)...)

		n := end - start
		as.updateJob(jobID, func(j *models.BatchJob) { j.Advance(n) })
	}

	as.mu.Lock()
	as.jobResults[jobID] = results
	if job, ok := as.jobs[jobID]; ok {
		job.Finish(nil)
	}
	as.mu.Unlock()

	as.logger.Info("Batch job completed",
		zap.String("job_id", jobID),
		zap.Int("total_addresses", len(addresses)))
}

func (as *AddressService) updateJob(jobID string, fn func(*models.BatchJob)) {
	as.mu.Lock()
	defer as.mu.Unlock()
	if job, ok := as.jobs[jobID]; ok {
		fn(job)
	}
}

// evictJobsLocked bỏ các job đã xong cũ nhất khi vượt giới hạn
func (as *AddressService) evictJobsLocked() {
	for len(as.jobOrder) > as.opts.MaxJobs {
		evicted := false
		for i, id := range as.jobOrder {
			if job, ok := as.jobs[id]; ok && !job.IsCompleted() {
				continue
			}
			delete(as.jobs, id)
			delete(as.jobResults, id)
			as.jobOrder = append(as.jobOrder[:i], as.jobOrder[i+1:]...)
			evicted = true
			break
		}
		if !evicted {
			return
		}
	}
}

// GetJobStatus lấy trạng thái job
func (as *AddressService) GetJobStatus(jobID string) (models.BatchJob, error) {
	as.mu.RLock()
	defer as.mu.RUnlock()

	job, ok := as.jobs[jobID]
	if !ok {
		return models.BatchJob{}, ErrJobNotFound
	}
	return *job, nil
}

// GetJobResults lấy kết quả job đã xong
func (as *AddressService) GetJobResults(jobID string) ([]models.AddressResult, error) {
	as.mu.RLock()
	defer as.mu.RUnlock()

	job, ok := as.jobs[jobID]
	if !ok {
		return nil, ErrJobNotFound
	}
	if job.Status == models.JobStatusFailed {
		return nil, fmt.Errorf("job %s failed: %s", jobID, job.Message)
	}
	if !job.IsCompleted() {
		return nil, ErrJobRunning
	}
	return as.jobResults[jobID], nil
}

// JobCount số job đang giữ trong bộ nhớ
func (as *AddressService) JobCount() int {
	as.mu.RLock()
	defer as.mu.RUnlock()
	return len(as.jobs)
}

// Shutdown dừng các job đang chạy và đợi chúng kết thúc
func (as *AddressService) Shutdown() {
	as.jobCancel()
	as.jobWG.Wait()
}

// Snapshot thông tin engine hiện tại cho trang quản trị
func (as *AddressService) Snapshot() (version string, counts map[string]int, report *gazetteer.Report, ok bool) {
	eng := as.engine.Load()
	if eng == nil {
		return "", nil, nil, false
	}
	r := eng.report
	return eng.version, eng.resolver.Index().Counts(), &r, true
}

// GetStartTime lấy thời gian khởi động service
func (as *AddressService) GetStartTime() time.Time {
	return as.startTime
}

// Cache cache đang dùng, có thể nil
func (as *AddressService) Cache() ICacheService {
	return as.cache
}
