package utils

import "regexp"

var nonDigitRe = regexp.MustCompile(`\D`)

// NormalizePhone приводит номер к каноническому виду из одних цифр:
// "+82 10-1234-5678" -> "01012345678". Код страны 82 сворачивается в
// ведущий ноль.
func NormalizePhone(raw string) string {
	digits := nonDigitRe.ReplaceAllString(raw, "")
	if len(digits) > 2 && digits[:2] == "82" {
		digits = "0" + digits[2:]
	}
	return digits
}

var mobileRe = regexp.MustCompile(`^01[0-9]\d{7,8}$`)

// IsValidMobile проверяет уже нормализованный номер (010-xxxx-xxxx и т.п.).
func IsValidMobile(normalized string) bool {
	return mobileRe.MatchString(normalized)
}
