package restapi

import (
	"time"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/commercekit/salesapi/internal/bi"
	"github.com/commercekit/salesapi/internal/domain"
	"github.com/commercekit/salesapi/internal/webserver"
)

func registerBIRoutes() {
	webserver.ApiGET("/merchants/most_revenue", mostRevenue)
	webserver.ApiGET("/merchants/most_items", mostItems)
	webserver.ApiGET("/merchants/:id/revenue", merchantRevenue)
	webserver.ApiGET("/revenue", revenueOverRange)
}

// mostRevenue ranks merchants by valid-sale revenue; quantity bounds
// the result size and may be zero.
func mostRevenue(c echo.Context) error {
	limit, err := parseQuantity(c)
	if err != nil {
		return respondError(c, err)
	}
	stats, err := bi.NewAggregator(GetDB(c)).TopMerchantsByRevenue(c.Request().Context(), limit)
	if err != nil {
		return respondError(c, err)
	}
	return statsResponse(c, stats)
}

// mostItems ranks merchants by units sold across valid sales.
func mostItems(c echo.Context) error {
	limit, err := parseQuantity(c)
	if err != nil {
		return respondError(c, err)
	}
	stats, err := bi.NewAggregator(GetDB(c)).TopMerchantsByItemsSold(c.Request().Context(), limit)
	if err != nil {
		return respondError(c, err)
	}
	return statsResponse(c, stats)
}

// revenueOverRange sums all-merchant revenue for invoices created
// between the start and end calendar dates, inclusive.
func revenueOverRange(c echo.Context) error {
	start, err := parseDateParam(c, "start")
	if err != nil {
		return respondError(c, err)
	}
	end, err := parseDateParam(c, "end")
	if err != nil {
		return respondError(c, err)
	}
	revenue, err := bi.NewAggregator(GetDB(c)).RevenueOverRange(c.Request().Context(), start, end)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, revenueDocument(revenue))
}

// merchantRevenue sums one merchant's valid-sale revenue.
func merchantRevenue(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	revenue, err := bi.NewAggregator(GetDB(c)).RevenueForMerchant(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, revenueDocument(revenue))
}

func statsResponse(c echo.Context, stats []bi.MerchantStat) error {
	merchantIDs := make([]int64, 0, len(stats))
	for _, stat := range stats {
		merchantIDs = append(merchantIDs, stat.ID)
	}
	itemIDs, err := loadMerchantItemIDs(GetDB(c), merchantIDs)
	if err != nil {
		return respondError(c, errors.Wrapf(domain.ErrStoreUnavailable, "load merchant items: %v", err))
	}
	return ok(c, merchantStatsDocument(stats, itemIDs))
}

func parseQuantity(c echo.Context) (int, error) {
	raw := c.QueryParam("quantity")
	if raw == "" {
		return 0, errors.Wrap(domain.ErrInvalidQuery, "quantity parameter is required")
	}
	limit, err := cast.ToIntE(raw)
	if err != nil {
		return 0, errors.Wrapf(domain.ErrInvalidQuery, "quantity expects an integer, got %q", raw)
	}
	return limit, nil
}

func parseDateParam(c echo.Context, name string) (time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return time.Time{}, errors.Wrapf(domain.ErrInvalidQuery, "%s parameter is required", name)
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return time.Time{}, errors.Wrapf(domain.ErrInvalidQuery, "%s expects a date, got %q", name, raw)
	}
	return t, nil
}
