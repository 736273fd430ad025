package normalizer

// corrections ánh xạ cặp nguyên âm đặt dấu sai vị trí sang cách viết đúng
var corrections = map[string]string{
	"ià": "ìa", "iá": "ía", "iả": "ỉa", "iã": "ĩa", "iạ": "ịa",
	"uà": "ùa", "uá": "úa", "uả": "ủa", "uã": "ũa", "uạ": "ụa",
	"oà": "òa", "oá": "óa", "oả": "ỏa", "oã": "õa", "oạ": "ọa",
	"oì": "òi", "oí": "ói", "oỉ": "ỏi", "oĩ": "õi", "oị": "ọi",
	"ưà": "ừa", "ưá": "ứa", "ưả": "ửa", "ưã": "ữa", "ưạ": "ựa",
	"aì": "ài", "aí": "ái", "aỉ": "ải", "aĩ": "ãi", "aị": "ại",
	"aò": "ào", "aó": "áo", "aỏ": "ảo", "aõ": "ão", "aọ": "ạo",
	"aù": "àu", "aú": "áu", "aủ": "ảu", "aũ": "ãu", "aụ": "ạu",
	"eò": "èo", "eó": "éo", "eỏ": "ẻo", "eõ": "ẽo", "eọ": "ẹo",
	"âù": "ầu", "âú": "ấu", "âủ": "ẩu", "âũ": "ẫu", "âụ": "ậu",
	"êù": "ều", "êú": "ếu", "êủ": "ểu", "êũ": "ễu", "êụ": "ệu",
}

// CorrectToken sửa token khớp nguyên vẹn với bảng lỗi đặt dấu
func CorrectToken(token string) string {
	if fixed, ok := corrections[token]; ok {
		return fixed
	}
	return token
}
