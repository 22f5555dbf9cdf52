package ipaddr

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10.0.0.5", "10.0.0.5"},
		{"10.0.0.5:41234", "10.0.0.5"},
		{"203.0.113.7, 10.0.0.1, 172.16.0.1", "203.0.113.7"},
		{" 203.0.113.7 ", "203.0.113.7"},
		{"::ffff:192.168.1.20", "192.168.1.20"},
		{"[::1]:8080", "::1"},
		{"2001:db8::1", "2001:db8::1"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMask(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10.0.0.5", "10.0.0.xxx"},
		{"203.0.113.254", "203.0.113.xxx"},
		{"2001:db8:85a3:0:0:8a2e:370:7334", "2001:db8:85a3:xxxx"},
		{"::1", "::1"},
		{"garbage", "garbage"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Mask(tt.in); got != tt.want {
			t.Errorf("Mask(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsIPv4(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"10.0.0.5", true},
		{"255.255.255.255", true},
		{"bob", false},
		{"10.0.0", false},
		{"2001:db8::1", false},
		{"::ffff:10.0.0.5", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsIPv4(tt.in); got != tt.want {
			t.Errorf("IsIPv4(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
