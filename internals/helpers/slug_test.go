// file: internals/helpers/slug_test.go
package helper

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"SDN Melati 01", 0, "sdn-melati-01"},
		{"  Sekolah   Harapan Bangsa!  ", 0, "sekolah-harapan-bangsa"},
		{"already-a-slug", 0, "already-a-slug"},
		{"---", 0, "item"},
		{"", 0, "item"},
		{"abcdef", 3, "abc"},
		{"ab-cdef", 3, "ab"}, // truncation never leaves a trailing hyphen
	}
	for _, tc := range cases {
		if got := Slugify(tc.in, tc.maxLen); got != tc.want {
			t.Errorf("Slugify(%q, %d) = %q, want %q", tc.in, tc.maxLen, got, tc.want)
		}
	}
}
