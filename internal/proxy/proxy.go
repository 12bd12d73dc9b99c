// Package proxy relays loopback traffic to a fixed upstream unchanged.
package proxy

import (
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
)

var forwardingHeaders = []string{"Forwarded", "X-Forwarded-For", "X-Forwarded-Host", "X-Forwarded-Proto"}

// New forwards every request to http://<upstream>. The inbound Host and the
// Forwarded and X-Forwarded-* headers are passed through as received and
// nothing is added. Hop-by-hop headers (Connection, Keep-Alive, Upgrade,
// Te, Trailer, Proxy-*) are stripped in both directions. Any upstream
// failure is answered with 502 Bad Gateway.
func New(upstream string) http.Handler {
	target := &url.URL{Scheme: "http", Host: upstream}
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.Out.URL.Scheme = target.Scheme
			pr.Out.URL.Host = target.Host
			pr.Out.Host = pr.In.Host
			for _, h := range forwardingHeaders {
				if v, ok := pr.In.Header[h]; ok {
					pr.Out.Header[h] = v
				}
			}
		},
		FlushInterval: -1,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Printf("proxy %s %s: %v", r.Method, r.URL.RequestURI(), err)
			w.Header().Set("Content-Type", "text/plain")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, "Bad Gateway")
		},
	}
}
