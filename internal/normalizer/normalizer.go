package normalizer

import (
	"regexp"
	"strings"
	"unicode"
)

// maxPasses giới hạn số lần lặp pipeline trước khi coi là ổn định
const maxPasses = 16

var (
	reMissingSegment = regexp.MustCompile(`,\s?,`)
	reTokenSpan      = regexp.MustCompile(`[^\s,]+`)

	reCommaSuffix    = regexp.MustCompile(`,\s?[a-zA-Z]{1,2}\.`)
	reJoinedHyphen   = regexp.MustCompile(`([\p{L}\p{N}])-([\p{L}\p{N}])`)
	reHouseNumber    = regexp.MustCompile(`^[A-Za-z]?\d+/\d*[A-Za-z]*,?`)
	reAdminKeywords  = regexp.MustCompile(`(?i)(?:quận|huyện|phường|thị\s?xã|xã|thành\s?phố|thị\s?trấn|tỉnh)\s?`)
	// dạng không dấu chỉ bỏ ở đầu phân đoạn còn ít nhất hai từ (Xa La, Quan Hoa là tên), hoặc khi đứng trước số
	reFoldedKeywords = regexp.MustCompile(`(?i)(^|,)\s*(?:ph(?:ư|u)(?:ờ|o)ng|qu(?:ậ|a)n|huy(?:ệ|e)n|th(?:ị|i)\s?x(?:ã|a)|x(?:ã|a)|th(?:à|a)nh\s?ph(?:ố|o)|th(?:ị|i)\s?tr(?:ấ|a)n|t(?:ỉ|i)nh)\s+([^,\s]+\s+[^,\s]+)`)
	reFoldedNumbered = regexp.MustCompile(`(?i)(^|[\s,])(?:phuong|quan)\s+(\d)`)
	reShortAdmin     = regexp.MustCompile(`(?i)(^|[\s,])(tp\.|tp\s|tx\.|tx\s|tt\.|tt\s|t\.|t\s|q\.|q\d|h\.|h\s|p\.|p\d|x\.|x\s|f\.|f\s)`)
	reLocality       = regexp.MustCompile(`(?i)^(?:s(?:ố|o) nh(?:à|a) \d+|s(?:ố|o) \d+|khu (?:ph(?:ố|o) )?\d+|t(?:ổ|o) (?:d(?:â|a)n ph(?:ố|o) )?\d+)(?:,?\s?t(?:ổ|o) \d+|,?\s?khu (?:ph(?:ố|o) )?\d+)?`)
	rePunctuation    = regexp.MustCompile(`[.,]`)
	reWhitespace     = regexp.MustCompile(`\s+`)
)

// Normalizer làm sạch địa chỉ thô thành chuỗi token phân tách bởi khoảng trắng
type Normalizer struct {
	aliases map[string]string
}

// NewNormalizer tạo mới Normalizer với bảng alias cho token cuối
func NewNormalizer(aliases map[string]string) *Normalizer {
	return &Normalizer{aliases: MergeAliases(aliases)}
}

// Preprocess thay token cuối bằng alias, sửa lỗi đặt dấu và phát hiện phân đoạn quận/huyện bị bỏ trống
func (n *Normalizer) Preprocess(raw string) (string, bool) {
	text := Compose(strings.TrimSpace(raw))
	hasDistrict := !reMissingSegment.MatchString(text)

	text = strings.TrimRight(text, ". ")
	start := strings.LastIndexAny(text, " ,") + 1
	if alias, ok := n.aliases[strings.ToLower(text[start:])]; ok {
		text = text[:start] + alias
	}

	text = reTokenSpan.ReplaceAllStringFunc(text, CorrectToken)
	return text, hasDistrict
}

// Normalize chạy pipeline regex cho tới khi kết quả không đổi
func (n *Normalizer) Normalize(text string) string {
	out := Compose(text)
	// chuỗi đã chuẩn hóa không còn dấu phẩy nên bước này không lặp lại
	if strings.Contains(out, ",") {
		out = reFoldedKeywords.ReplaceAllString(out, "$1 $2")
	}
	for i := 0; i < maxPasses; i++ {
		next := normalizePass(out)
		if next == out {
			break
		}
		out = next
	}
	return out
}

func normalizePass(s string) string {
	s = strings.TrimSpace(s)
	s = reCommaSuffix.ReplaceAllString(s, " ")
	s = reJoinedHyphen.ReplaceAllString(s, "$1 $2")
	s = reHouseNumber.ReplaceAllString(s, " ")
	s = reAdminKeywords.ReplaceAllString(s, " ")
	s = reFoldedNumbered.ReplaceAllString(s, "$1$2")
	s = reShortAdmin.ReplaceAllStringFunc(s, stripShortAdmin)
	s = reLocality.ReplaceAllString(strings.TrimSpace(s), " ")
	s = rePunctuation.ReplaceAllString(s, " ")
	s = reWhitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// stripShortAdmin giữ lại ký tự phân cách phía trước và chữ số đi sau viết tắt (Q5, P1)
func stripShortAdmin(m string) string {
	var b strings.Builder
	r := []rune(m)
	if r[0] == ',' || unicode.IsSpace(r[0]) {
		b.WriteRune(r[0])
	}
	b.WriteByte(' ')
	if last := r[len(r)-1]; unicode.IsDigit(last) {
		b.WriteRune(last)
	}
	return b.String()
}

// Tokenize tách chuỗi đã chuẩn hóa, bỏ các token chỉ gồm dấu câu
func Tokenize(s string) []string {
	fields := strings.Fields(s)
	tokens := fields[:0]
	for _, f := range fields {
		if IsWord(f) {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// IsWord kiểm tra token có ít nhất một chữ cái hoặc chữ số
func IsWord(token string) bool {
	for _, r := range token {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// IsNumeric kiểm tra token chỉ gồm chữ số
func IsNumeric(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
