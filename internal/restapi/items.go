package restapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/commercekit/salesapi/internal/domain"
	"github.com/commercekit/salesapi/internal/finder"
	"github.com/commercekit/salesapi/internal/webserver"
	"github.com/commercekit/salesapi/pkg/common"
)

type itemPayload struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unit_price"`
	MerchantID  int64   `json:"merchant_id"`
}

type itemUpdatePayload struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	UnitPrice   *float64 `json:"unit_price"`
	MerchantID  *int64   `json:"merchant_id"`
}

func registerItemRoutes() {
	webserver.ApiGET("/items/find", findItem)
	webserver.ApiGET("/items/find_all", findAllItems)
	webserver.ApiGET("/items", listItems)
	webserver.ApiGET("/items/:id", getItem)
	webserver.ApiGET("/items/:id/merchants", getItemMerchant)
	webserver.ApiPOST("/items", createItem)
	webserver.ApiPUT("/items/:id", updateItem)
	webserver.ApiPATCH("/items/:id", updateItem)
	webserver.ApiDELETE("/items/:id", deleteItem)
}

// findItem resolves a single-field search to at most one item. No
// match is a success with an empty data object.
func findItem(c echo.Context) error {
	f := finder.NewItemFinder(GetDB(c))
	field, value, err := f.PickParam(c.QueryParams())
	if err != nil {
		return respondError(c, err)
	}
	item, err := f.Single(c.Request().Context(), field, value)
	if err != nil {
		return respondError(c, err)
	}
	if item == nil {
		return ok(c, emptyDocument())
	}
	return ok(c, document{Data: itemResource(item)})
}

func findAllItems(c echo.Context) error {
	f := finder.NewItemFinder(GetDB(c))
	field, value, err := f.PickParam(c.QueryParams())
	if err != nil {
		return respondError(c, err)
	}
	items, err := f.Multi(c.Request().Context(), field, value)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, itemListDocument(items))
}

func listItems(c echo.Context) error {
	var items []domain.Item
	if err := GetDB(c).Order("id ASC").Find(&items).Error; err != nil {
		return respondError(c, errors.Wrapf(domain.ErrStoreUnavailable, "list items: %v", err))
	}
	return ok(c, itemListDocument(items))
}

func getItem(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var item domain.Item
	if err := GetDB(c).First(&item, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return respondError(c, errors.Wrapf(domain.ErrNotFound, "item %d", id))
	} else if err != nil {
		return respondError(c, errors.Wrapf(domain.ErrStoreUnavailable, "load item: %v", err))
	}
	return ok(c, document{Data: itemResource(&item)})
}

// getItemMerchant returns the merchant owning an item
func getItemMerchant(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	db := GetDB(c)

	var item domain.Item
	if err := db.First(&item, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return respondError(c, errors.Wrapf(domain.ErrNotFound, "item %d", id))
	} else if err != nil {
		return respondError(c, errors.Wrapf(domain.ErrStoreUnavailable, "load item: %v", err))
	}

	var merchant domain.Merchant
	if err := db.First(&merchant, item.MerchantID).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return respondError(c, errors.Wrapf(domain.ErrNotFound, "merchant %d", item.MerchantID))
	} else if err != nil {
		return respondError(c, errors.Wrapf(domain.ErrStoreUnavailable, "load merchant: %v", err))
	}

	itemIDs, err := loadMerchantItemIDs(db, []int64{merchant.ID})
	if err != nil {
		return respondError(c, errors.Wrapf(domain.ErrStoreUnavailable, "load merchant items: %v", err))
	}
	return ok(c, document{Data: merchantResource(merchant.ID, merchant.Name, itemIDs[merchant.ID])})
}

func createItem(c echo.Context) error {
	var payload itemPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "unable to parse item")
	}
	payload.Name = strings.TrimSpace(payload.Name)
	payload.Description = strings.TrimSpace(payload.Description)
	if msg := validateItemFields(payload.Name, payload.Description, payload.UnitPrice); msg != "" {
		return fail(c, http.StatusUnprocessableEntity, "VALIDATION_FAILED", msg)
	}

	db := GetDB(c)
	var count int64
	if err := db.Model(&domain.Merchant{}).Where("id = ?", payload.MerchantID).Count(&count).Error; err != nil {
		return respondError(c, errors.Wrapf(domain.ErrStoreUnavailable, "check merchant: %v", err))
	}
	if count == 0 {
		return fail(c, http.StatusUnprocessableEntity, "VALIDATION_FAILED", "merchant does not exist")
	}

	item := domain.Item{
		ID:          common.NextID(),
		Name:        payload.Name,
		Description: payload.Description,
		UnitPrice:   payload.UnitPrice,
		MerchantID:  payload.MerchantID,
	}
	if err := db.Create(&item).Error; err != nil {
		return respondError(c, errors.Wrapf(domain.ErrStoreUnavailable, "create item: %v", err))
	}
	return c.JSON(http.StatusCreated, document{Data: itemResource(&item)})
}

func updateItem(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var payload itemUpdatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "unable to parse item")
	}

	db := GetDB(c)
	var item domain.Item
	if err := db.First(&item, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return respondError(c, errors.Wrapf(domain.ErrNotFound, "item %d", id))
	} else if err != nil {
		return respondError(c, errors.Wrapf(domain.ErrStoreUnavailable, "load item: %v", err))
	}

	if payload.Name != nil {
		item.Name = strings.TrimSpace(*payload.Name)
	}
	if payload.Description != nil {
		item.Description = strings.TrimSpace(*payload.Description)
	}
	if payload.UnitPrice != nil {
		item.UnitPrice = *payload.UnitPrice
	}
	if payload.MerchantID != nil {
		var count int64
		if err := db.Model(&domain.Merchant{}).Where("id = ?", *payload.MerchantID).Count(&count).Error; err != nil {
			return respondError(c, errors.Wrapf(domain.ErrStoreUnavailable, "check merchant: %v", err))
		}
		if count == 0 {
			return fail(c, http.StatusUnprocessableEntity, "VALIDATION_FAILED", "merchant does not exist")
		}
		item.MerchantID = *payload.MerchantID
	}
	if msg := validateItemFields(item.Name, item.Description, item.UnitPrice); msg != "" {
		return fail(c, http.StatusUnprocessableEntity, "VALIDATION_FAILED", msg)
	}

	if err := db.Save(&item).Error; err != nil {
		return respondError(c, errors.Wrapf(domain.ErrStoreUnavailable, "update item: %v", err))
	}
	return ok(c, document{Data: itemResource(&item)})
}

func deleteItem(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	db := GetDB(c)
	result := db.Delete(&domain.Item{}, id)
	if result.Error != nil {
		return respondError(c, errors.Wrapf(domain.ErrStoreUnavailable, "delete item: %v", result.Error))
	}
	if result.RowsAffected == 0 {
		return respondError(c, errors.Wrapf(domain.ErrNotFound, "item %d", id))
	}
	return c.NoContent(http.StatusNoContent)
}

func validateItemFields(name, description string, unitPrice float64) string {
	if name == "" {
		return "name is required"
	}
	if description == "" {
		return "description is required"
	}
	if unitPrice <= 0 {
		return "unit_price must be greater than 0"
	}
	return ""
}
