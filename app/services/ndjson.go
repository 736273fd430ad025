package services

import (
	"encoding/json"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/address-resolver/app/models"
)

// WriteNDJSON ghi danh sách kết quả theo định dạng NDJSON, mỗi kết quả một dòng
func WriteNDJSON(w io.Writer, results []models.AddressResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	for i := range results {
		if err := encoder.Encode(&results[i]); err != nil {
			return err
		}
	}
	return nil
}

// WriteNDJSONGzip ghi NDJSON đã nén gzip
func WriteNDJSONGzip(w io.Writer, results []models.AddressResult) error {
	gz := gzip.NewWriter(w)
	if err := WriteNDJSON(gz, results); err != nil {
		gz.Close()
		return err
	}
	return gz.Close()
}
