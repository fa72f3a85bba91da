package handlers

import (
	"net/http"

	"audiovault/internal/logger"
	"audiovault/internal/service"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Options tunes request limits the router enforces.
type Options struct {
	MaxUploadBytes int64      // 0 means unlimited
	LoginRate      rate.Limit // attempts per second per client; 0 disables throttling
	LoginBurst     int
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	opts     Options
	logins   *ipLimiter
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts Options) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	h := &Handler{services: services, log: log, opts: opts}
	if opts.LoginRate > 0 {
		h.logins = newIPLimiter(opts.LoginRate, opts.LoginBurst)
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestID, h.accessLog)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)
	router.POST("/login", h.throttleLogin, h.login)

	api := router.Group("/", h.subjectMiddleware)
	h.registerAudioRoutes(api)
	h.registerPlaylistRoutes(api)
	h.registerUserRoutes(api)
	h.registerAdminRoutes(api)

	return router
}

func (h *Handler) registerAudioRoutes(r *gin.RouterGroup) {
	r.POST("/audio", h.uploadAudio)
	r.GET("/audio/:id", h.streamAudio)
	r.DELETE("/audio/:id", h.deleteAudio)
	r.GET("/users/:id/audio", h.listUserAudio)
}

func (h *Handler) registerPlaylistRoutes(r *gin.RouterGroup) {
	playlists := r.Group("/playlists")
	{
		playlists.POST("", h.createPlaylist)
		playlists.GET("", h.listPlaylists)
		playlists.GET("/:id", h.getPlaylist)
		playlists.DELETE("/:id", h.deletePlaylist)
		// Body example: {"audio_id":"...","position":3}
		playlists.POST("/:id/items", h.addPlaylistItem)
		playlists.DELETE("/:id/items/:item_id", h.removePlaylistItem)
	}
}

func (h *Handler) registerUserRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.POST("", h.createUser)
		users.GET("", h.listUsers)
		users.DELETE("/:id", h.deleteUser)
	}
}

func (h *Handler) registerAdminRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin")
	{
		admin.GET("/events", h.listEvents)
		admin.GET("/stats", h.getStats)
		admin.GET("/ws", h.wsStats)
	}
}

// @Summary  Liveness probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
