package main

import (
	"net/http"

	_ "storefront/docs"
	"storefront/internal/handlers"
	"storefront/internal/middleware"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type api struct {
	health     *handlers.HealthHandlers
	products   *handlers.ProductHandlers
	categories *handlers.CategoryHandlers
	comments   *handlers.CommentHandlers
	carts      *handlers.CartHandlers
	customers  *handlers.CustomerHandlers
	orders     *handlers.OrderHandlers
	jobs       *handlers.JobHandlers

	jwt            echo.MiddlewareFunc
	registry       *prometheus.Registry
	webhookEnabled bool
}

func registerRoutes(e *echo.Echo, a *api) {
	e.GET("/health", a.health.HealthCheck)
	e.GET("/health/ready", a.health.ReadinessCheck)
	e.GET("/health/live", a.health.LivenessCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"service": "storefront", "version": version})
	})

	if a.webhookEnabled {
		e.POST("/webhooks/identity", a.customers.IdentityWebhook)
	}

	authed := []echo.MiddlewareFunc{a.jwt, middleware.RequireIdentity()}
	staff := []echo.MiddlewareFunc{a.jwt, middleware.RequireIdentity(), middleware.RequireStaff()}

	versions := middleware.NewVersionMiddleware()
	e.Use(versions.APIVersionResolver())
	v1 := versions.VersionRoute(e, "v1")

	// Catalog: public reads, staff writes.
	v1.GET("/products", a.products.ListProducts)
	v1.GET("/products/:id", a.products.GetProduct)
	v1.POST("/products", a.products.CreateProduct, staff...)
	v1.PUT("/products/:id", a.products.UpdateProduct, staff...)
	v1.DELETE("/products/:id", a.products.DeleteProduct, staff...)

	v1.GET("/products/:product_id/comments", a.comments.ListComments)
	v1.GET("/products/:product_id/comments/:id", a.comments.GetComment)
	v1.POST("/products/:product_id/comments", a.comments.CreateComment)
	v1.PUT("/products/:product_id/comments/:id", a.comments.UpdateComment, authed...)
	v1.DELETE("/products/:product_id/comments/:id", a.comments.DeleteComment, staff...)

	v1.GET("/categories", a.categories.ListCategories)
	v1.GET("/categories/:id", a.categories.GetCategory)
	v1.POST("/categories", a.categories.CreateCategory, staff...)
	v1.PUT("/categories/:id", a.categories.UpdateCategory, staff...)
	v1.DELETE("/categories/:id", a.categories.DeleteCategory, staff...)

	// Carts are anonymous; the cart id is the capability.
	v1.POST("/carts", a.carts.CreateCart)
	v1.GET("/carts/:cart_id", a.carts.GetCart)
	v1.DELETE("/carts/:cart_id", a.carts.DeleteCart)
	v1.GET("/carts/:cart_id/items", a.carts.ListCartItems)
	v1.POST("/carts/:cart_id/items", a.carts.AddCartItem)
	v1.GET("/carts/:cart_id/items/:id", a.carts.GetCartItem)
	v1.PATCH("/carts/:cart_id/items/:id", a.carts.UpdateCartItem)
	v1.DELETE("/carts/:cart_id/items/:id", a.carts.DeleteCartItem)

	v1.GET("/customers/me", a.customers.GetMe, authed...)
	v1.PUT("/customers/me", a.customers.UpdateMe, authed...)
	v1.GET("/customers", a.customers.ListCustomers, staff...)
	v1.GET("/customers/:id", a.customers.GetCustomer, staff...)
	v1.PUT("/customers/:id", a.customers.UpdateCustomer, staff...)
	v1.DELETE("/customers/:id", a.customers.DeleteCustomer, staff...)

	v1.POST("/orders", a.orders.CreateOrder, authed...)
	v1.GET("/orders", a.orders.ListOrders, authed...)
	v1.GET("/orders/:id", a.orders.GetOrder, authed...)
	v1.GET("/orders/:id/receipt", a.orders.GetOrderReceipt, authed...)
	v1.PATCH("/orders/:id", a.orders.UpdateOrderStatus, staff...)
	v1.DELETE("/orders/:id", a.orders.DeleteOrder, staff...)

	v1.GET("/admin/jobs", a.jobs.ListJobs, staff...)
	v1.POST("/admin/jobs/:name/run", a.jobs.RunJob, staff...)
}
