package routes

import (
	"net/http"

	"tripdesk/auth"
	"tripdesk/itinerary"
	"tripdesk/library"
	"tripdesk/middleware"
	"tripdesk/printdoc"
	"tripdesk/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/librarypic/*filepath", http.Dir("static/librarypic"))
}

func AddAuthRoutes(router *httprouter.Router, h *auth.Handler, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/login", rl.Limit(h.Login))
}

func AddItineraryRoutes(router *httprouter.Router, h *itinerary.Handler, p *printdoc.Handler, rl *ratelim.RateLimiter) {
	router.GET("/api/itineraries", h.GetItineraries)
	router.GET("/api/itineraries/:id", h.GetItinerary)
	router.POST("/api/itineraries", rl.Limit(middleware.Authenticate(h.CreateItinerary)))
	router.PUT("/api/itineraries/:id", rl.Limit(middleware.Authenticate(h.UpdateItinerary)))
	router.DELETE("/api/itineraries/:id", rl.Limit(middleware.Authenticate(h.DeleteItinerary)))

	router.GET("/api/itineraries/:id/print", rl.Limit(p.PrintItinerary))
}

func AddLibraryRoutes(router *httprouter.Router, h *library.Handler, rl *ratelim.RateLimiter) {
	router.GET("/api/library/items", h.GetItems)
	router.GET("/api/library/stats", h.GetStats)
	router.GET("/api/library/suggest", h.Suggest)
	router.GET("/api/library/item/:id", h.GetItem)
	router.POST("/api/library/item", rl.Limit(middleware.Authenticate(h.CreateItem)))
	router.PUT("/api/library/item/:id", rl.Limit(middleware.Authenticate(h.UpdateItem)))
	router.DELETE("/api/library/item/:id", rl.Limit(middleware.Authenticate(h.DeleteItem)))
	router.POST("/api/library/item/:id/media", rl.Limit(middleware.Authenticate(h.UploadMedia)))
}
