package handlers

import (
	"github.com/gin-gonic/gin"

	"storecast.io/notifier/internal/pkg/logger"
)

// RegisterPublic mounts the unauthenticated health routes.
func RegisterPublic(r gin.IRouter, s *Server) {
	r.GET("/healthz", s.GetLiveness)
	r.GET("/readyz", s.GetReadiness)
}

// RegisterHandlers mounts the API on api, which must already require a valid
// token. staff guards the management routes.
func RegisterHandlers(api gin.IRouter, s *Server, staff gin.HandlerFunc) {
	me := api.Group("/me")
	me.GET("/feed", s.GetMyFeed)
	me.GET("/preferences", s.GetMyPreferences)
	me.PUT("/preferences", s.UpdateMyPreferences)
	me.GET("/subscriptions", s.ListMySubscriptions)
	me.GET("/orders", s.ListMyOrders)
	me.GET("/profile", s.GetMyProfile)
	me.PUT("/profile", s.UpdateMyProfile)

	api.GET("/products", s.ListProducts)
	api.GET("/products/:id", s.GetProduct)
	api.POST("/products", staff, s.CreateProduct)
	api.DELETE("/products/:id", staff, s.DeleteProduct)

	api.POST("/orders", s.PlaceOrder)
	api.GET("/orders", staff, s.ListOrders)
	api.PATCH("/orders/:id/status", staff, s.UpdateOrderStatus)

	api.GET("/newsletters", s.ListNewsletters)
	api.GET("/newsletters/:id/posts", s.ListNewsletterPosts)
	api.POST("/newsletters/:id/subscribe", s.Subscribe)
	api.POST("/newsletters", staff, s.CreateNewsletter)
	api.POST("/newsletters/:id/posts", staff, s.PublishPost)
	api.POST("/newsletters/posts/:id/dispatch", staff, s.DispatchPost)
	api.POST("/newsletters/posts/:id/schedule", staff, s.SchedulePost)

	api.PUT("/subscriptions/:id", s.UpdateSubscription)
	api.DELETE("/subscriptions/:id", s.Unsubscribe)

	campaigns := api.Group("/campaigns", staff)
	campaigns.POST("", s.CreateCampaign)
	campaigns.GET("", s.ListCampaigns)
	campaigns.POST("/preview", s.PreviewAudience)
	campaigns.GET("/:id", s.GetCampaign)
	campaigns.PUT("/:id", s.UpdateCampaign)
	campaigns.DELETE("/:id", s.DeleteCampaign)
	campaigns.POST("/:id/dispatch", s.DispatchCampaign)
	campaigns.POST("/:id/schedule", s.ScheduleCampaign)
	campaigns.GET("/:id/recipients", s.GetCampaignRecipients)

	admin := api.Group("/admin", staff)
	admin.POST("/users", s.CreateUser)
	admin.GET("/users", s.ListUsers)
	admin.PATCH("/users/:user_id", s.UpdateUser)
	admin.POST("/users/:user_id/toggle-active", s.ToggleUserActive)
	admin.DELETE("/users/:user_id", s.DeleteUser)
	admin.POST("/scheduler/sweep", s.RunSweep)
	admin.Any("/log-level", gin.WrapH(logger.HTTPHandler()))
}
