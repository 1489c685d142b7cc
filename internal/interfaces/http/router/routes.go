package router

import (
	"github.com/erp/storesync/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers bundles the HTTP handlers served by the API
type Handlers struct {
	Sync      *handler.SyncHandler
	Variation *handler.VariationHandler
	System    *handler.SystemHandler
}

// Mount registers every API route on engine.
//
//	GET    /health
//	POST   /api/v1/sync
//	GET    /api/v1/sync/status
//	POST   /api/v1/sync/:domain
//	POST   /api/v1/sync/:domain/pause
//	POST   /api/v1/sync/:domain/resume
//	POST   /api/v1/products/:id/variations
//	POST   /api/v1/products/:id/variations/colors
//	POST   /api/v1/products/:id/variations/apply-colors
//	DELETE /api/v1/variations/:id
//	GET    /api/v1/variation-attributes
//	POST   /api/v1/variation-attributes
//	PATCH  /api/v1/variation-attributes/:id
//	GET    /api/v1/system/info
func Mount(engine *gin.Engine, h Handlers) {
	engine.GET("/health", h.System.Health)

	syncRoutes := NewDomainGroup("sync", "/sync")
	syncRoutes.POST("", h.Sync.TriggerAll).
		GET("/status", h.Sync.Status).
		POST("/:domain", h.Sync.Trigger).
		POST("/:domain/pause", h.Sync.Pause).
		POST("/:domain/resume", h.Sync.Resume)

	catalogRoutes := NewDomainGroup("catalog", "")
	catalogRoutes.Group("products", "/products").
		POST("/:id/variations", h.Variation.Create).
		POST("/:id/variations/colors", h.Variation.CreateColors).
		POST("/:id/variations/apply-colors", h.Variation.ApplyColors)
	catalogRoutes.Group("variations", "/variations").
		DELETE("/:id", h.Variation.Delete)
	catalogRoutes.Group("variation-attributes", "/variation-attributes").
		GET("", h.Variation.ListAttributes).
		POST("", h.Variation.CreateAttribute).
		PATCH("/:id", h.Variation.UpdateAttribute)

	systemRoutes := NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", h.System.Info)

	NewRouter(engine, WithAPIVersion("v1")).
		Register(syncRoutes).
		Register(catalogRoutes).
		Register(systemRoutes).
		Setup()
}
