// Package relayechohandler mounts the WebSocket relay on an echo router.
package relayechohandler

import (
	"github.com/labstack/echo/v4"

	"github.com/wsproxy/authrelay/proxy"
)

// NewEchoHandler wraps a configured relay proxy as an echo.HandlerFunc.
//
// Example:
//
//	p, err := proxy.New(proxy.WithUpstream("wss://api.example.com/ws"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	e := echo.New()
//	e.GET("/ws", relayechohandler.NewEchoHandler(p))
func NewEchoHandler(p *proxy.Proxy) echo.HandlerFunc {
	return func(c echo.Context) error {
		p.ServeHTTP(c.Response(), c.Request())
		return nil
	}
}
