package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildInfo сведения о сборке для /version
type BuildInfo struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	GitCommit string `json:"git_commit"`
}

// NewRouter собирает маршруты HTTP API
func NewRouter(h *ReadHandler, info BuildInfo, log *zap.Logger) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(Logger(log))
	if h.maxUpload > 0 {
		r.MaxMultipartMemory = h.maxUpload
	}

	// Проверка здоровья и версия
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": info.Version,
		})
	})

	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, info)
	})

	api := r.Group("/api/v1")
	{
		api.POST("/read", h.Read)
		api.GET("/read/:md5", h.GetByMD5)
	}

	return r
}
