package routes

import (
	"net/http"
	"path/filepath"

	"lakecity/cart"
	"lakecity/checkout"
	"lakecity/metrics"
	"lakecity/middleware"
	"lakecity/notify"
	"lakecity/orders"
	"lakecity/products"
	"lakecity/ratelim"

	"github.com/julienschmidt/httprouter"
)

// Handlers is everything the router needs to mount the API.
type Handlers struct {
	Products *products.Handler
	Cart     *cart.Handler
	Orders   *orders.Handler
	Checkout *checkout.Handler
	Notify   *notify.Handler
	Sessions *middleware.SessionIssuer
	Limiter  *ratelim.RateLimiter
}

// pages maps site routes to the files served from the public directory.
var pages = map[string]string{
	"/":                   "index.html",
	"/menu":               "menu.html",
	"/contact":            "contact.html",
	"/checkout":           "checkout.html",
	"/order-confirmation": "order-confirmation.html",
}

func AddProductRoutes(router *httprouter.Router, h Handlers) {
	router.GET("/api/products", h.Products.GetProducts)
}

func AddCartRoutes(router *httprouter.Router, h Handlers) {
	session := h.Sessions.Session
	router.GET("/api/cart", session(h.Cart.GetCart))
	router.DELETE("/api/cart", session(h.Cart.ClearCart))
	router.POST("/api/cart/items", session(h.Cart.AddToCart))
	router.PUT("/api/cart/items/:id", session(h.Cart.UpdateCartItem))
	router.DELETE("/api/cart/items/:id", session(h.Cart.RemoveFromCart))
	router.GET("/api/cart/ws", session(h.Cart.WatchCart))
}

func AddOrderRoutes(router *httprouter.Router, h Handlers) {
	router.POST("/api/orders", h.Limiter.Limit(h.Orders.CreateOrder))
	router.GET("/api/orders/:number/receipt", h.Limiter.Limit(h.Orders.PrintReceipt))
}

func AddCheckoutRoutes(router *httprouter.Router, h Handlers) {
	router.POST("/api/checkout", h.Limiter.Limit(h.Sessions.Session(h.Checkout.PlaceOrder)))
}

func AddNotifyRoutes(router *httprouter.Router, h Handlers) {
	router.POST("/api/send-email", h.Limiter.Limit(h.Notify.SendEmail))
}

func AddUtilityRoutes(router *httprouter.Router) {
	router.GET("/health", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("200"))
	})
	router.GET("/metrics", metrics.Handler)
}

// AddPageRoutes serves the pre-built site pages and their assets.
func AddPageRoutes(router *httprouter.Router, h Handlers, publicDir string) {
	for path, file := range pages {
		full := filepath.Join(publicDir, file)
		router.GET(path, h.Sessions.Session(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
			http.ServeFile(w, r, full)
		}))
	}
	router.ServeFiles("/static/*filepath", http.Dir(filepath.Join(publicDir, "static")))
}
