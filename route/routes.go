package route

import (
	"menuboard/controller"
	"menuboard/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// MenuAPIRoutes registers the reference menu API. Write routes share limiter.
func MenuAPIRoutes(router *gin.Engine, mc *controller.MenuController, limiter *rate.Limiter) {
	router.GET("/menus", mc.ListMenus)

	writes := router.Group("/")
	writes.Use(utils.RateLimit(limiter))
	{
		writes.POST("/add-menu", mc.AddMenu)
		writes.POST("/add-menu/excel", mc.BulkAddMenu)
	}

	router.Static(controller.UploadURLPrefix, mc.UploadDir)
}

// ViewRoutes registers the menu management page. Every page route shares
// limiter since each one may reach the menu API.
func ViewRoutes(router *gin.Engine, vc *controller.ViewController, limiter *rate.Limiter) {
	page := router.Group("/")
	page.Use(utils.RateLimit(limiter))
	{
		page.GET("/", vc.Index)
		page.POST("/save", vc.Save)
		page.POST("/cancel", vc.Cancel)
		page.POST("/refresh", vc.Refresh)
		page.GET("/export.xlsx", vc.Export)
	}
}

// SystemRoutes registers endpoints shared by both servers.
func SystemRoutes(router *gin.Engine) {
	router.GET("/healthz", controller.Health)
	router.GET("/metrics", utils.MetricsHandler())
}
