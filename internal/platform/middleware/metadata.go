package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"ouvidoria/pkg/requestcontext"
)

// ClientMetadata captures client IP and a parsed device description for audit
// events. It never blocks a request; missing or unparseable headers simply
// leave the fields empty.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)

		device := ""
		if rawUA := r.Header.Get("User-Agent"); rawUA != "" {
			ua := useragent.New(rawUA)
			name, version := ua.Browser()
			device = name + " " + version + " (" + ua.OS() + ")"
		}

		ctx := requestcontext.WithClientMetadata(r.Context(), ip, device)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// First hop is the original client when behind a trusted proxy.
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
