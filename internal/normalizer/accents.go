package normalizer

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StripDiacritics loại bỏ dấu tiếng Việt, giữ nguyên chữ đ/Đ
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Compose đưa chuỗi về dạng dựng sẵn (NFC)
func Compose(s string) string {
	return norm.NFC.String(s)
}

// Fold chuyển về ASCII lowercase, dùng cho khóa tìm kiếm không dấu
func Fold(s string) string {
	return strings.ToLower(strings.TrimSpace(unidecode.Unidecode(s)))
}

// Key là khóa so khớp của một từ trong trie: NFC, lowercase, sửa vị trí dấu
func Key(word string) string {
	return CorrectToken(strings.ToLower(Compose(word)))
}
