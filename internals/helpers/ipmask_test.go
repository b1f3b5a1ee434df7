// file: internals/helpers/ipmask_test.go
package helper

import "testing"

func TestMaskIP(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"203.0.113.45", "203.0.0.0"},
		{"10.1.2.3", "10.1.0.0"},
		{" 192.168.7.9 ", "192.168.0.0"},
		{"2001:db8:85a3::8a2e:370:7334", "2001:db8::"},
		{"", ""},
		{"not-an-ip", ""},
		{"999.1.1.1", ""},
	}
	for _, tc := range cases {
		if got := MaskIP(tc.in); got != tc.want {
			t.Errorf("MaskIP(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
