// Package router wires handlers to routes. All dashboard data routes sit
// behind JWT auth and the rate limiter; listing reads additionally pass
// through the response cache for their scope.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/barbershop-admin/internal/cache"
	"github.com/iliyamo/barbershop-admin/internal/handler"
	"github.com/iliyamo/barbershop-admin/internal/middleware"
)

// Deps carries everything the route table needs.
type Deps struct {
	Secret       string
	Store        *cache.Store
	RateLimit    echo.MiddlewareFunc
	Auth         *handler.AuthHandler
	Customers    *handler.CustomerHandler
	Reservations *handler.BillingHandler
	Invoices     *handler.BillingHandler
	Dashboard    *handler.DashboardHandler
}

// Register mounts every route on the Echo instance.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	// Public sign-in.
	e.POST("/v1/auth/login", d.Auth.Login, d.RateLimit)

	v1 := e.Group("/v1", middleware.JWTAuth(d.Secret), d.RateLimit)
	v1.GET("/me", d.Auth.Me)

	// Customers.
	custCache := middleware.ListingCache(d.Store, "customers")
	v1.GET("/customers", d.Customers.List, custCache)
	v1.GET("/customers/select", d.Customers.Select, custCache)
	v1.GET("/customers/:id", d.Customers.Get)
	v1.POST("/customers", d.Customers.Create)
	v1.PUT("/customers/:id", d.Customers.Update)
	v1.DELETE("/customers/:id", d.Customers.Delete)

	registerBilling(v1, "/reservations", d.Reservations, middleware.ListingCache(d.Store, "reservations"))
	registerBilling(v1, "/invoices", d.Invoices, middleware.ListingCache(d.Store, "invoices"))

	// Overview.
	dashCache := middleware.ListingCache(d.Store, "dashboard")
	v1.GET("/dashboard/summary", d.Dashboard.Summary, dashCache)
	v1.GET("/dashboard/revenue", d.Dashboard.RevenueChart, dashCache)
}

// registerBilling mounts the shared billing route shape under one prefix.
func registerBilling(g *echo.Group, prefix string, h *handler.BillingHandler, cached echo.MiddlewareFunc) {
	g.GET(prefix, h.List, cached)
	g.GET(prefix+"/pages", h.Pages, cached)
	g.GET(prefix+"/latest", h.Latest, cached)
	g.GET(prefix+"/:id", h.Get)
	g.POST(prefix, h.Create)
	g.PUT(prefix+"/:id", h.Update)
	g.DELETE(prefix+"/:id", h.Delete)
}
