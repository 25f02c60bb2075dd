// Package webserver hosts the echo HTTP server. Handler packages
// register routes through the ApiGET/ApiPOST/... helpers; every request
// gets a database handle bound to its context so cancelled requests
// abort their in-flight queries.
package webserver

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/commercekit/salesapi/internal/app"
)

// DBContextKey is the echo context key holding the request-scoped
// *gorm.DB handle.
const DBContextKey = "salesapi_db"

var server *WebServer

type WebServer struct {
	appCtx app.AppContext
	root   *echo.Echo
	api    *echo.Group
}

// Init creates the global web server instance
func Init(appCtx app.AppContext) {
	server = NewWebServer(appCtx)
}

func NewWebServer(appCtx app.AppContext) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = NewJsoniterSerializer()

	e.Use(middleware.Recover())
	e.Use(zapLogger())
	e.Use(injectDB(appCtx))

	s := &WebServer{
		appCtx: appCtx,
		root:   e,
		api:    e.Group("/api/v1"),
	}
	return s
}

// Root exposes the underlying echo instance (used by tests)
func (s *WebServer) Root() *echo.Echo {
	return s.root
}

func (s *WebServer) ApiGET(path string, h echo.HandlerFunc) {
	s.api.GET(path, h)
}

func (s *WebServer) ApiPOST(path string, h echo.HandlerFunc) {
	s.api.POST(path, h)
}

func (s *WebServer) ApiPUT(path string, h echo.HandlerFunc) {
	s.api.PUT(path, h)
}

func (s *WebServer) ApiPATCH(path string, h echo.HandlerFunc) {
	s.api.PATCH(path, h)
}

func (s *WebServer) ApiDELETE(path string, h echo.HandlerFunc) {
	s.api.DELETE(path, h)
}

// Root returns the global server's echo instance (used by tests)
func Root() *echo.Echo {
	return server.root
}

// Package-level registration helpers operating on the global server

func ApiGET(path string, h echo.HandlerFunc)    { server.ApiGET(path, h) }
func ApiPOST(path string, h echo.HandlerFunc)   { server.ApiPOST(path, h) }
func ApiPUT(path string, h echo.HandlerFunc)    { server.ApiPUT(path, h) }
func ApiPATCH(path string, h echo.HandlerFunc)  { server.ApiPATCH(path, h) }
func ApiDELETE(path string, h echo.HandlerFunc) { server.ApiDELETE(path, h) }

// Listen starts the global server and blocks until it stops
func Listen() error {
	cfg := server.appCtx.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	zap.S().Infof("web server listening on %s", addr)
	return server.root.Start(addr)
}

// Shutdown gracefully stops the global server
func Shutdown(ctx context.Context) error {
	return server.root.Shutdown(ctx)
}

// injectDB binds a request-scoped gorm handle into the echo context.
// WithContext carries the request's cancellation into the store driver.
func injectDB(appCtx app.DBProvider) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(DBContextKey, appCtx.DB().WithContext(c.Request().Context()))
			return next(c)
		}
	}
}

func zapLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			zap.L().Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)))
			return nil
		}
	}
}
