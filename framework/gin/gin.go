// Package relayginhandler mounts the WebSocket relay on a gin router.
package relayginhandler

import (
	"github.com/gin-gonic/gin"

	"github.com/wsproxy/authrelay/proxy"
)

// NewGinHandler wraps a configured relay proxy as a gin.HandlerFunc.
//
// Example:
//
//	p, err := proxy.New(proxy.WithUpstream("wss://api.example.com/ws"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	router := gin.Default()
//	router.GET("/ws", relayginhandler.NewGinHandler(p))
func NewGinHandler(p *proxy.Proxy) gin.HandlerFunc {
	return func(c *gin.Context) {
		p.ServeHTTP(c.Writer, c.Request)
	}
}
