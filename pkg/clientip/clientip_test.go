package clientip

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRealClientIP(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{remote: "203.0.113.7:5123", want: "203.0.113.7"},
		{remote: "[2001:db8::1]:443", want: "2001:db8::1"},
		{remote: "[::ffff:198.51.100.4]:80", want: "198.51.100.4"},
		{remote: "[fe80::1%eth0]:80", want: "fe80::1"},
		{remote: "not-an-ip", want: "not-an-ip"},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = tt.remote
		r.Header.Set("X-Forwarded-For", "10.0.0.1")
		assert.Equal(t, tt.want, RealClientIP(r), tt.remote)
	}
}
