package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/urlkit/urlkit/internal/middleware"
	"github.com/urlkit/urlkit/internal/service"
	"go.uber.org/zap"
)

func NewRouter(linkService service.LinkService, logger *zap.Logger, devMode bool) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.Recovery(logger),
		middleware.NoCache(),
	)

	linkHandler := NewLinkHandler(linkService, logger, devMode)

	router.GET("/health", linkHandler.Health)
	router.POST("/urls", linkHandler.CreateLink)
	// GET /urls is neither a create nor a redirect.
	router.GET("/urls", linkHandler.MethodNotAllowed)
	router.POST("/edge/redirect", linkHandler.EdgeRedirect)
	router.GET("/:shortID", linkHandler.Redirect)

	router.HandleMethodNotAllowed = true
	router.NoMethod(linkHandler.MethodNotAllowed)
	router.NoRoute(func(c *gin.Context) {
		// GET on an unrouted path (the bare root, nested paths) still
		// goes through redirect resolution; everything else is 405.
		if c.Request.Method == http.MethodGet {
			linkHandler.Redirect(c)
			return
		}
		linkHandler.MethodNotAllowed(c)
	})

	return router
}
