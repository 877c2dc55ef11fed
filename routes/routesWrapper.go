package routes

import (
	"net/http"

	"lakecity/utils"

	"github.com/julienschmidt/httprouter"
)

// RoutesWrapper builds the router with every route group mounted.
func RoutesWrapper(h Handlers, publicDir string) *httprouter.Router {
	router := httprouter.New()
	router.HandleMethodNotAllowed = true
	router.MethodNotAllowed = http.HandlerFunc(utils.MethodNotAllowed)

	AddProductRoutes(router, h)
	AddCartRoutes(router, h)
	AddOrderRoutes(router, h)
	AddCheckoutRoutes(router, h)
	AddNotifyRoutes(router, h)
	AddUtilityRoutes(router)
	AddPageRoutes(router, h, publicDir)

	return router
}
