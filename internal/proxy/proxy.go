package proxy

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewReverseProxy forwards requests to target after stripping prefixToStrip,
// so /api/categories reaches <target>/categories.
func NewReverseProxy(target, prefixToStrip string, log *logrus.Logger) (*httputil.ReverseProxy, error) {
	targetURL, err := url.Parse(target)
	if err != nil || targetURL.Scheme == "" || targetURL.Host == "" {
		log.Errorf("Failed to parse target URL '%s': %v", target, err)
		return nil, fmt.Errorf("invalid target URL: %q", target)
	}

	rp := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			originalPath := pr.In.URL.Path
			pr.Out.URL.Path = stripPrefix(pr.In.URL.Path, prefixToStrip)
			pr.Out.URL.RawPath = ""
			pr.SetURL(targetURL)
			pr.SetXForwarded()
			// The remote gateway routes on Host.
			pr.Out.Host = targetURL.Host

			log.Debugf("Proxy: %s %s -> %s", pr.In.Method, originalPath, pr.Out.URL.String())
		},
		ErrorHandler: func(rw http.ResponseWriter, req *http.Request, err error) {
			log.Errorf("Reverse proxy error to target '%s' for path '%s': %v", target, req.URL.Path, err)
			http.Error(rw, "Bad Gateway", http.StatusBadGateway)
		},
	}

	log.Infof("Reverse proxy created for target: %s (will strip prefix: '%s')", target, prefixToStrip)
	return rp, nil
}

func stripPrefix(p, prefix string) string {
	if prefix == "" || !strings.HasPrefix(p, prefix) {
		return p
	}
	rest := strings.TrimPrefix(p, prefix)
	if rest != "" && !strings.HasPrefix(rest, "/") {
		// /apiary is not under /api.
		return p
	}
	if rest == "" {
		return "/"
	}
	return path.Clean(rest)
}

func ProxyHandler(p *httputil.ReverseProxy, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		log.Debugf("ProxyHandler: Forwarding request for path '%s'", c.Request.URL.Path)
		p.ServeHTTP(c.Writer, c.Request)
	}
}

// Register mounts the proxy for every method under prefix/.
func Register(router gin.IRouter, prefix string, p *httputil.ReverseProxy, log *logrus.Logger) {
	router.Any(prefix+"/*proxyPath", ProxyHandler(p, log))
}
