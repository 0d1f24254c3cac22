package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kiettt23/vendoor-sub002/internal/core/domain"
	"github.com/kiettt23/vendoor-sub002/internal/core/service"
)

func TestRespondError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"insufficient stock", &domain.InsufficientStockError{
			Shortages: []domain.StockShortage{{VariantID: "v1", Available: 0, Requested: 2}},
		}, http.StatusConflict},
		{"invalid transition", &domain.InvalidTransitionError{
			From: domain.StatusDelivered, To: domain.StatusPending,
		}, http.StatusUnprocessableEntity},
		{"duplicate checkout", service.ErrDuplicateCheckout, http.StatusConflict},
		{"status conflict", domain.ErrStatusConflict, http.StatusConflict},
		{"order not found", domain.ErrOrderNotFound, http.StatusNotFound},
		{"empty cart", domain.ErrEmptyCart, http.StatusBadRequest},
		{"vendor split", fmt.Errorf("cart line \"p1\": %w", domain.ErrVendorSplit), http.StatusBadRequest},
		{"coupon not found", domain.ErrCouponNotFound, http.StatusUnprocessableEntity},
		{"coupon expired", domain.ErrCouponExpired, http.StatusUnprocessableEntity},
		{"coupon not eligible", domain.ErrCouponNotEligible, http.StatusUnprocessableEntity},
		{"wrapped not found", fmt.Errorf("load order: %w", domain.ErrOrderNotFound), http.StatusNotFound},
		{"unknown error", errors.New("mysql went away"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, tc.err)

			if w.Code != tc.want {
				t.Errorf("status = %d, want %d", w.Code, tc.want)
			}
		})
	}
}

func TestVendorStats_RejectsBadDays(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := &Handler{}
	router := gin.New()
	router.GET("/api/vendors/:id/stats", h.VendorStats)

	for _, days := range []string{"0", "-3", "abc"} {
		req := httptest.NewRequest(http.MethodGet, "/api/vendors/v1/stats?days="+days, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("days=%q: status = %d, want 400", days, w.Code)
		}
	}
}
