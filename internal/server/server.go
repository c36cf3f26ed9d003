package server

import (
	"storefront-checkout/internal/handler"
	appmiddleware "storefront-checkout/internal/middleware"
	"storefront-checkout/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo            *echo.Echo
	checkoutHandler *handler.CheckoutHandler
}

func NewServer(checkoutService service.CheckoutService, tokenSecret string) *Server {
	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:            e,
		checkoutHandler: handler.NewCheckoutHandler(checkoutService),
	}

	s.setupRoutes(tokenSecret)
	return s
}

func (s *Server) setupRoutes(tokenSecret string) {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- checkout --------
	checkout := api.Group("/checkout")
	checkout.POST("/client-token", s.checkoutHandler.ClientToken)
	checkout.POST("/orders", s.checkoutHandler.CreateOrder)
	checkout.POST("/orders/:orderID/capture", s.checkoutHandler.CaptureOrder)
	checkout.GET("/orders/:orderID", s.checkoutHandler.GetOrder)
	checkout.POST("/charge-card", s.checkoutHandler.ChargeCard)
	checkout.POST("/promo/validate", s.checkoutHandler.ValidatePromo)

	checkout.POST("/captures/:captureID/refund", s.checkoutHandler.RefundCapture,
		appmiddleware.RequireScope(tokenSecret, "refund"))

	// -------- provider callbacks --------
	paypal := api.Group("/paypal")
	paypal.GET("/success", s.checkoutHandler.HandleSuccess)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
