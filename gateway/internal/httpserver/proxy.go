package httpserver

import (
	"errors"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/little_lovely/pkg/logging"
)

var errNoHost = errors.New("upstream url needs a scheme and host")

var upstreamTransport = &http.Transport{
	Proxy: http.ProxyFromEnvironment,
	DialContext: (&net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 60 * time.Second,
	}).DialContext,
	MaxIdleConns:          200,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
}

// upstream is one backend service behind the gateway.
type upstream struct {
	name  string
	strip string
	proxy *httputil.ReverseProxy
}

func newUpstream(name, target, stripPrefix string) (*upstream, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, &url.Error{Op: "parse", URL: target, Err: errNoHost}
	}

	up := &upstream{name: name, strip: stripPrefix}
	up.proxy = &httputil.ReverseProxy{
		Transport:     upstreamTransport,
		FlushInterval: 100 * time.Millisecond,
		Rewrite:       up.rewrite(u),
		ErrorHandler:  up.fail,
	}
	return up, nil
}

func (up *upstream) rewrite(target *url.URL) func(*httputil.ProxyRequest) {
	return func(r *httputil.ProxyRequest) {
		proto := r.In.Header.Get("X-Forwarded-Proto")
		if proto == "" {
			proto = "http"
			if r.In.TLS != nil {
				proto = "https"
			}
		}

		if up.strip != "" {
			r.Out.URL.Path = strings.TrimPrefix(r.Out.URL.Path, up.strip)
			r.Out.URL.RawPath = strings.TrimPrefix(r.Out.URL.RawPath, up.strip)
		}
		r.SetURL(target)
		r.SetXForwarded()

		// Backends check Origin against Host, so keep the one the browser used.
		r.Out.Host = r.In.Host
		r.Out.Header.Set("X-Forwarded-Proto", proto)
	}
}

func (up *upstream) fail(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context()).Error("upstream_error",
		"status", http.StatusBadGateway, "upstream", up.name, "path", r.URL.Path, "error", err)
	w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
	w.WriteHeader(http.StatusBadGateway)
	_, _ = w.Write([]byte(`{"message":"` + up.name + ` is unavailable"}` + "\n"))
}

func (up *upstream) handler(c echo.Context) error {
	req := c.Request()
	if rid := c.Response().Header().Get(echo.HeaderXRequestID); rid != "" {
		req.Header.Set(echo.HeaderXRequestID, rid)
	}
	up.proxy.ServeHTTP(c.Response(), req)
	return nil
}
