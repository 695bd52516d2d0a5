package proxy

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/common/logger"
)

// hop-by-hop headers are not meant to be forwarded
var hopHeaders = map[string]bool{
	"connection":          true,
	"keep-alive":          true,
	"proxy-authenticate":  true,
	"proxy-authorization": true,
	"te":                  true,
	"trailers":            true,
	"transfer-encoding":   true,
	"upgrade":             true,
}

// Forwarder relays requests to one upstream service, keeping the path.
type Forwarder struct {
	target string
	client *http.Client
}

func NewForwarder(target string, timeout time.Duration) *Forwarder {
	return &Forwarder{
		target: strings.TrimSuffix(target, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

// Handle forwards the request as is and copies the upstream response back.
// CORS headers from upstream are dropped; the gateway sets its own.
func (f *Forwarder) Handle(c *gin.Context) {
	log := logger.FromGin(c)

	targetURL := f.target + c.Request.URL.Path
	if c.Request.URL.RawQuery != "" {
		targetURL += "?" + c.Request.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, targetURL, c.Request.Body)
	if err != nil {
		log.Error("Failed to create forward request", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create request"})
		return
	}
	req.ContentLength = c.Request.ContentLength

	for k, v := range c.Request.Header {
		if hopHeaders[strings.ToLower(k)] {
			continue
		}
		req.Header[k] = v
	}
	req.Header.Set("X-Forwarded-For", c.ClientIP())
	if id := c.GetString(logger.RequestIDKey); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		log.Warn("Upstream unreachable", zap.String("url", targetURL), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "service unreachable"})
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		lowerKey := strings.ToLower(k)
		if strings.HasPrefix(lowerKey, "access-control-") || hopHeaders[lowerKey] {
			continue
		}
		c.Header(k, strings.Join(v, ","))
	}

	c.Status(resp.StatusCode)
	if _, err := io.Copy(c.Writer, resp.Body); err != nil {
		log.Error("Failed to copy response body", zap.Error(err))
	}
}
