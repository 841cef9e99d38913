package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/halahlab/backend/api/handler"
)

type Handlers struct {
	Users    *apiHandler.UsersHandler
	Orders   *apiHandler.OrdersHandler
	Messages *apiHandler.MessagesHandler
	Health   *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// User provisioning
	r.POST("/api/v1/users", authMiddleware(handlers.Users.Create))
	r.POST("/api/v1/users/bulk", authMiddleware(handlers.Users.CreateBulk))
	r.GET("/api/v1/users", authMiddleware(handlers.Users.List))
	r.GET("/api/v1/users/lookup", authMiddleware(handlers.Users.Lookup))
	r.PUT("/api/v1/users/{id}", authMiddleware(handlers.Users.Update))

	// Orders and results
	r.POST("/api/v1/orders", authMiddleware(handlers.Orders.Create))
	r.GET("/api/v1/orders", authMiddleware(handlers.Orders.List))
	r.GET("/api/v1/orders/{id}", authMiddleware(handlers.Orders.Get))
	r.POST("/api/v1/orders/{id}/result", authMiddleware(handlers.Orders.AttachResult))

	// Patient message feed
	r.GET("/api/v1/messages", authMiddleware(handlers.Messages.List))

	return r
}
