package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"github.com/address-resolver/app/models"
	"github.com/address-resolver/app/requests"
	"github.com/address-resolver/app/responses"
	"github.com/address-resolver/app/services"
)

// AddressController controller xử lý các request liên quan đến địa chỉ
type AddressController struct {
	addressService *services.AddressService
	logger         *zap.Logger
}

// NewAddressController tạo mới AddressController
func NewAddressController(addressService *services.AddressService, logger *zap.Logger) *AddressController {
	return &AddressController{
		addressService: addressService,
		logger:         logger,
	}
}

// ResolveAddress phân giải địa chỉ đơn lẻ
func (ac *AddressController) ResolveAddress(c *gin.Context) {
	var req requests.ResolveAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", "Request không hợp lệ: "+err.Error())
		return
	}

	startTime := time.Now()
	result, cacheHit, err := ac.addressService.Resolve(c.Request.Context(), req.Address, req.Options.CacheEnabled())
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	out := *result
	if !req.Options.ReturnTrace {
		out.Matches = nil
	}

	c.JSON(http.StatusOK, responses.ResolveAddressResponse{
		DatasetVersion:   result.DatasetVersion,
		Result:           out,
		ProcessingTimeMs: time.Since(startTime).Milliseconds(),
		CacheHit:         cacheHit,
	})
}

// BatchResolve phân giải hàng loạt địa chỉ, chạy nền khi async
func (ac *AddressController) BatchResolve(c *gin.Context) {
	var req requests.BatchResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", "Request không hợp lệ: "+err.Error())
		return
	}

	if req.Async {
		jobID, err := ac.addressService.SubmitJob(req.Addresses)
		if err != nil {
			abortWithServiceError(c, err)
			return
		}
		c.JSON(http.StatusAccepted, responses.BatchJobResponse{
			JobID:          jobID,
			TotalAddresses: len(req.Addresses),
			Message:        "Job đã được tạo và đang xử lý",
		})
		return
	}

	startTime := time.Now()
	results, err := ac.addressService.ResolveBatch(c.Request.Context(), req.Addresses)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	if !req.Options.ReturnTrace {
		stripTrace(results)
	}

	c.JSON(http.StatusOK, responses.BatchResolveResponse{
		DatasetVersion:   ac.addressService.Version(),
		Results:          results,
		ProcessingTimeMs: time.Since(startTime).Milliseconds(),
	})
}

// GetJobStatus lấy trạng thái job
func (ac *AddressController) GetJobStatus(c *gin.Context) {
	job, err := ac.addressService.GetJobStatus(c.Param("jobID"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, responses.JobStatusResponse{BatchJob: job})
}

// GetJobResults lấy kết quả job, hỗ trợ NDJSON và gzip
func (ac *AddressController) GetJobResults(c *gin.Context) {
	jobID := c.Param("jobID")
	results, err := ac.addressService.GetJobResults(jobID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	if c.Query("format") == "ndjson" {
		ac.streamNDJSON(c, jobID, results, c.Query("gzip") == "1")
		return
	}

	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success:   true,
		Message:   "Lấy kết quả thành công",
		Data:      results,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// streamNDJSON ghi mỗi kết quả một dòng JSON
func (ac *AddressController) streamNDJSON(c *gin.Context, jobID string, results []models.AddressResult, gzipEnabled bool) {
	c.Header("Content-Type", "application/x-ndjson")
	if gzipEnabled {
		c.Header("Content-Encoding", "gzip")
	}
	c.Status(http.StatusOK)

	var writer gin.ResponseWriter = c.Writer
	if gzipEnabled {
		gzWriter := gzip.NewWriter(c.Writer)
		defer gzWriter.Close()
		writer = &gzipResponseWriter{
			ResponseWriter: c.Writer,
			gzWriter:       gzWriter,
		}
	}

	if err := services.WriteNDJSON(writer, results); err != nil {
		ac.logger.Error("Lỗi encode NDJSON", zap.String("job_id", jobID), zap.Error(err))
	}
	writer.Flush()
}

// HealthCheck kiểm tra sức khỏe service
func (ac *AddressController) HealthCheck(c *gin.Context) {
	status := "healthy"
	engine := "ready"
	if !ac.addressService.Ready() {
		status = "degraded"
		engine = "loading"
	}

	c.JSON(http.StatusOK, responses.HealthCheckResponse{
		Status:    status,
		Timestamp: time.Now().Format(time.RFC3339),
		Uptime:    time.Since(ac.addressService.GetStartTime()).Round(time.Second).String(),
		Version:   ac.addressService.Version(),
		Services: map[string]string{
			"resolver": engine,
		},
	})
}

// Ready sẵn sàng khi dữ liệu tham chiếu đã nạp
func (ac *AddressController) Ready(c *gin.Context) {
	if !ac.addressService.Ready() {
		abortWithServiceError(c, services.ErrNotReady)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "dataset_version": ac.addressService.Version()})
}

// Live tiến trình còn sống
func (ac *AddressController) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

func stripTrace(results []models.AddressResult) {
	for i := range results {
		results[i].Matches = nil
	}
}

// gzipResponseWriter wrapper cho gzip writer
type gzipResponseWriter struct {
	gin.ResponseWriter
	gzWriter *gzip.Writer
}

func (w *gzipResponseWriter) Write(data []byte) (int, error) {
	return w.gzWriter.Write(data)
}

func (w *gzipResponseWriter) WriteString(s string) (int, error) {
	return w.gzWriter.Write([]byte(s))
}

func (w *gzipResponseWriter) Flush() {
	w.gzWriter.Flush()
	w.ResponseWriter.Flush()
}
