// Package routes khai báo toàn bộ route HTTP của dịch vụ phân giải địa chỉ
//
// Cấu trúc:
// - api.go: API routes (/v1/*) và health check
// - web.go: trang giới thiệu (/, /docs)
// - middleware.go: request ID, recovery, access log
//
// Sử dụng:
// routes.SetupAllRoutes(router, addressController, adminController, logger)
package routes
