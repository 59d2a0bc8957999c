package utils

import "testing"

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"010-1234-5678", "01012345678"},
		{"+82 10-1234-5678", "01012345678"},
		{"+82-10-1234-5678", "01012345678"},
		{"8210 1234 5678", "01012345678"},
		{"01012345678", "01012345678"},
		{"011 123 4567", "0111234567"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizePhone(tc.in); got != tc.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsValidMobile(t *testing.T) {
	valid := []string{"01012345678", "0111234567", "01912345678"}
	for _, n := range valid {
		if !IsValidMobile(n) {
			t.Errorf("IsValidMobile(%q) = false, want true", n)
		}
	}

	invalid := []string{
		"021234567",     // городской, не мобильный
		"010123456",     // слишком короткий
		"010123456789",  // слишком длинный
		"010-1234-5678", // не нормализован
		"",
	}
	for _, n := range invalid {
		if IsValidMobile(n) {
			t.Errorf("IsValidMobile(%q) = true, want false", n)
		}
	}
}
