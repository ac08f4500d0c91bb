package main

import (
	"log/slog"

	"restaurant-api/internal/httpapi"
	"restaurant-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// newRouter builds the engine with the shared middleware and registers routes.
// Keep this file free of business logic. Handlers delegate to internal modules.
func newRouter(log *slog.Logger, h httpapi.Handlers, authMW gin.HandlerFunc) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	r.Use(httpapi.ClientIP())

	if err := httpapi.Register(r, h, authMW); err != nil {
		return nil, err
	}
	return r, nil
}
