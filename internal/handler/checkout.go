package handler

import (
	"net/http"

	"storefront-checkout/internal/dto"
	"storefront-checkout/internal/service"

	"github.com/labstack/echo/v4"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

func (h *CheckoutHandler) ClientToken(c echo.Context) error {
	token, err := h.checkoutService.ClientToken(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &dto.ClientTokenResponse{Token: token})
}

func (h *CheckoutHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	result, err := h.checkoutService.CreateOrder(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *CheckoutHandler) CaptureOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID := c.Param("orderID")
	if orderID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing order id")
	}

	result, err := h.checkoutService.CaptureOrder(ctx, orderID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *CheckoutHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID := c.Param("orderID")
	if orderID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing order id")
	}

	detail, err := h.checkoutService.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, detail)
}

func (h *CheckoutHandler) ChargeCard(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ChargeCardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	result, err := h.checkoutService.ChargeCard(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *CheckoutHandler) RefundCapture(c echo.Context) error {
	ctx := c.Request().Context()

	captureID := c.Param("captureID")
	if captureID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing capture id")
	}

	result, err := h.checkoutService.RefundCapture(ctx, captureID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *CheckoutHandler) ValidatePromo(c echo.Context) error {
	var req dto.PromoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	return c.JSON(http.StatusOK, h.checkoutService.ValidatePromo(req.Code))
}

// HandleSuccess is the return target of the fallback redirect flow:
// the provider appends the order id as the token query param, we
// capture server-side and bounce the shopper back to the storefront.
func (h *CheckoutHandler) HandleSuccess(c echo.Context) error {
	ctx := c.Request().Context()

	orderID := c.QueryParam("token")
	if orderID == "" {
		return c.String(http.StatusBadRequest, "missing order token")
	}

	if _, err := h.checkoutService.CaptureOrder(ctx, orderID); err != nil {
		return err
	}

	html := `
	<!DOCTYPE html>
	<html>
	<head>
		<meta charset="utf-8">
		<title>Payment Processing</title>
		<style>
			body {
				font-family: Arial, sans-serif;
				text-align: center;
				margin-top: 80px;
			}
			.countdown {
				font-size: 24px;
				font-weight: bold;
			}
		</style>
	</head>
	<body>
		<h2>Payment approved</h2>
		<p>Your payment was captured. You can return to the store.</p>
		<p>Redirecting to homepage in <span class="countdown" id="countdown">5</span> seconds…</p>

		<script>
			let seconds = 5;
			const el = document.getElementById("countdown");

			const timer = setInterval(function () {
				seconds--;
				el.textContent = seconds;

				if (seconds <= 0) {
					clearInterval(timer);
					window.location.href = "/";
				}
			}, 1000);
		</script>
	</body>
	</html>
	`

	return c.HTML(http.StatusOK, html)
}
