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

type merchantPayload struct {
	Name string `json:"name"`
}

func registerMerchantRoutes() {
	webserver.ApiGET("/merchants/find", findMerchant)
	webserver.ApiGET("/merchants/find_all", findAllMerchants)
	webserver.ApiGET("/merchants", listMerchants)
	webserver.ApiGET("/merchants/:id", getMerchant)
	webserver.ApiGET("/merchants/:id/items", getMerchantItems)
	webserver.ApiPOST("/merchants", createMerchant)
	webserver.ApiPUT("/merchants/:id", updateMerchant)
	webserver.ApiPATCH("/merchants/:id", updateMerchant)
	webserver.ApiDELETE("/merchants/:id", deleteMerchant)
}

func findMerchant(c echo.Context) error {
	f := finder.NewMerchantFinder(GetDB(c))
	field, value, err := f.PickParam(c.QueryParams())
	if err != nil {
		return respondError(c, err)
	}
	merchant, err := f.Single(c.Request().Context(), field, value)
	if err != nil {
		return respondError(c, err)
	}
	if merchant == nil {
		return ok(c, emptyDocument())
	}
	itemIDs, err := loadMerchantItemIDs(GetDB(c), []int64{merchant.ID})
	if err != nil {
		return respondError(c, errors.Wrapf(domain.ErrStoreUnavailable, "load merchant items: %v", err))
	}
	return ok(c, document{Data: merchantResource(merchant.ID, merchant.Name, itemIDs[merchant.ID])})
}

func findAllMerchants(c echo.Context) error {
	f := finder.NewMerchantFinder(GetDB(c))
	field, value, err := f.PickParam(c.QueryParams())
	if err != nil {
		return respondError(c, err)
	}
	merchants, err := f.Multi(c.Request().Context(), field, value)
	if err != nil {
		return respondError(c, err)
	}
	return merchantsResponse(c, merchants)
}

func listMerchants(c echo.Context) error {
	var merchants []domain.Merchant
	if err := GetDB(c).Order("id ASC").Find(&merchants).Error; err != nil {
		return respondError(c, errors.Wrapf(domain.ErrStoreUnavailable, "list merchants: %v", err))
	}
	return merchantsResponse(c, merchants)
}

func merchantsResponse(c echo.Context, merchants []domain.Merchant) error {
	merchantIDs := make([]int64, 0, len(merchants))
	for i := range merchants {
		merchantIDs = append(merchantIDs, merchants[i].ID)
	}
	itemIDs, err := loadMerchantItemIDs(GetDB(c), merchantIDs)
	if err != nil {
		return respondError(c, errors.Wrapf(domain.ErrStoreUnavailable, "load merchant items: %v", err))
	}
	return ok(c, merchantListDocument(merchants, itemIDs))
}

func getMerchant(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	db := GetDB(c)
	var merchant domain.Merchant
	if err := db.First(&merchant, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return respondError(c, errors.Wrapf(domain.ErrNotFound, "merchant %d", id))
	} else if err != nil {
		return respondError(c, errors.Wrapf(domain.ErrStoreUnavailable, "load merchant: %v", err))
	}
	itemIDs, err := loadMerchantItemIDs(db, []int64{merchant.ID})
	if err != nil {
		return respondError(c, errors.Wrapf(domain.ErrStoreUnavailable, "load merchant items: %v", err))
	}
	return ok(c, document{Data: merchantResource(merchant.ID, merchant.Name, itemIDs[merchant.ID])})
}

// getMerchantItems lists every item of one merchant
func getMerchantItems(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	db := GetDB(c)

	var count int64
	if err := db.Model(&domain.Merchant{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return respondError(c, errors.Wrapf(domain.ErrStoreUnavailable, "check merchant: %v", err))
	}
	if count == 0 {
		return respondError(c, errors.Wrapf(domain.ErrNotFound, "merchant %d", id))
	}

	var items []domain.Item
	if err := db.Where("merchant_id = ?", id).Order("id ASC").Find(&items).Error; err != nil {
		return respondError(c, errors.Wrapf(domain.ErrStoreUnavailable, "list merchant items: %v", err))
	}
	return ok(c, itemListDocument(items))
}

func createMerchant(c echo.Context) error {
	var payload merchantPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "unable to parse merchant")
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		return fail(c, http.StatusUnprocessableEntity, "VALIDATION_FAILED", "name is required")
	}

	merchant := domain.Merchant{
		ID:   common.NextID(),
		Name: payload.Name,
	}
	if err := GetDB(c).Create(&merchant).Error; err != nil {
		return respondError(c, errors.Wrapf(domain.ErrStoreUnavailable, "create merchant: %v", err))
	}
	return c.JSON(http.StatusCreated, document{Data: merchantResource(merchant.ID, merchant.Name, nil)})
}

func updateMerchant(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var payload merchantPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "unable to parse merchant")
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		return fail(c, http.StatusUnprocessableEntity, "VALIDATION_FAILED", "name is required")
	}

	db := GetDB(c)
	var merchant domain.Merchant
	if err := db.First(&merchant, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return respondError(c, errors.Wrapf(domain.ErrNotFound, "merchant %d", id))
	} else if err != nil {
		return respondError(c, errors.Wrapf(domain.ErrStoreUnavailable, "load merchant: %v", err))
	}

	merchant.Name = payload.Name
	if err := db.Save(&merchant).Error; err != nil {
		return respondError(c, errors.Wrapf(domain.ErrStoreUnavailable, "update merchant: %v", err))
	}
	itemIDs, err := loadMerchantItemIDs(db, []int64{merchant.ID})
	if err != nil {
		return respondError(c, errors.Wrapf(domain.ErrStoreUnavailable, "load merchant items: %v", err))
	}
	return ok(c, document{Data: merchantResource(merchant.ID, merchant.Name, itemIDs[merchant.ID])})
}

// deleteMerchant removes a merchant and everything it owns: items,
// invoices, and the line items and transactions hanging off those
// invoices.
func deleteMerchant(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	err = GetDB(c).Transaction(func(tx *gorm.DB) error {
		var merchant domain.Merchant
		if err := tx.First(&merchant, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.Wrapf(domain.ErrNotFound, "merchant %d", id)
		} else if err != nil {
			return errors.Wrapf(domain.ErrStoreUnavailable, "load merchant: %v", err)
		}

		invoiceIDs := tx.Model(&domain.Invoice{}).Select("id").Where("merchant_id = ?", id)
		if err := tx.Where("invoice_id IN (?)", invoiceIDs).Delete(&domain.Transaction{}).Error; err != nil {
			return errors.Wrapf(domain.ErrStoreUnavailable, "delete transactions: %v", err)
		}
		if err := tx.Where("invoice_id IN (?)", invoiceIDs).Delete(&domain.InvoiceItem{}).Error; err != nil {
			return errors.Wrapf(domain.ErrStoreUnavailable, "delete invoice items: %v", err)
		}
		if err := tx.Where("merchant_id = ?", id).Delete(&domain.Invoice{}).Error; err != nil {
			return errors.Wrapf(domain.ErrStoreUnavailable, "delete invoices: %v", err)
		}
		if err := tx.Where("merchant_id = ?", id).Delete(&domain.Item{}).Error; err != nil {
			return errors.Wrapf(domain.ErrStoreUnavailable, "delete items: %v", err)
		}
		return tx.Delete(&domain.Merchant{}, id).Error
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
