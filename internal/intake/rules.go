package intake

import (
	"regexp"
	"strings"
)

// DDDs ativos no plano de numeração brasileiro.
var validDDD = map[string]bool{
	"11": true, "12": true, "13": true, "14": true, "15": true, "16": true,
	"17": true, "18": true, "19": true, "21": true, "22": true, "24": true,
	"27": true, "28": true, "31": true, "32": true, "33": true, "34": true,
	"35": true, "37": true, "38": true, "41": true, "42": true, "43": true,
	"44": true, "45": true, "46": true, "47": true, "48": true, "49": true,
	"51": true, "53": true, "54": true, "55": true, "61": true, "62": true,
	"63": true, "64": true, "65": true, "66": true, "67": true, "68": true,
	"69": true, "71": true, "73": true, "74": true, "75": true, "77": true,
	"79": true, "81": true, "82": true, "83": true, "84": true, "85": true,
	"86": true, "87": true, "88": true, "89": true, "91": true, "92": true,
	"93": true, "94": true, "95": true, "96": true, "97": true, "98": true,
	"99": true,
}

var nonDigits = regexp.MustCompile(`\D`)

// ValidWhatsApp exige exatamente 11 dígitos: DDD reconhecido + nono dígito
// (indicador de celular) + número.
func ValidWhatsApp(raw string) bool {
	digits := nonDigits.ReplaceAllString(raw, "")
	if len(digits) != 11 {
		return false
	}
	if !validDDD[digits[:2]] {
		return false
	}
	return digits[2] == '9'
}

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

// ValidEmail aplica um padrão prático (não o RFC completo) e rejeita pontos
// consecutivos ou nas bordas da parte local.
func ValidEmail(raw string) bool {
	if !emailPattern.MatchString(raw) {
		return false
	}
	if strings.Contains(raw, "..") {
		return false
	}
	local := raw[:strings.LastIndex(raw, "@")]
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") {
		return false
	}
	domain := raw[strings.LastIndex(raw, "@")+1:]
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}
	return true
}

// ValidLink aceita apenas URLs http(s) absolutas.
func ValidLink(raw string) bool {
	return strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://")
}
