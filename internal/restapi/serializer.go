package restapi

import (
	"strconv"

	"gorm.io/gorm"

	"github.com/commercekit/salesapi/internal/bi"
	"github.com/commercekit/salesapi/internal/domain"
)

// Wire format: every response is {"data": <resource-or-array>}, where a
// resource carries a stringified id, a type tag, the entity attributes,
// and resource identifiers for related records. Revenue figures are a
// pseudo-resource with a null id.

type document struct {
	Data interface{} `json:"data"`
}

type resource struct {
	ID            *string                 `json:"id"`
	Type          string                  `json:"type,omitempty"`
	Attributes    interface{}             `json:"attributes"`
	Relationships map[string]relationship `json:"relationships,omitempty"`
}

type relationship struct {
	Data interface{} `json:"data"`
}

type resourceIdentifier struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type itemAttributes struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unit_price"`
	MerchantID  int64   `json:"merchant_id"`
}

type merchantAttributes struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type revenueAttributes struct {
	Revenue float64 `json:"revenue"`
}

func strID(id int64) *string {
	s := strconv.FormatInt(id, 10)
	return &s
}

func itemResource(item *domain.Item) resource {
	return resource{
		ID:   strID(item.ID),
		Type: "item",
		Attributes: itemAttributes{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			UnitPrice:   item.UnitPrice,
			MerchantID:  item.MerchantID,
		},
		Relationships: map[string]relationship{
			"merchant": {Data: resourceIdentifier{ID: strconv.FormatInt(item.MerchantID, 10), Type: "merchant"}},
		},
	}
}

func itemListDocument(items []domain.Item) document {
	resources := make([]resource, 0, len(items))
	for i := range items {
		resources = append(resources, itemResource(&items[i]))
	}
	return document{Data: resources}
}

func merchantResource(id int64, name string, itemIDs []int64) resource {
	identifiers := make([]resourceIdentifier, 0, len(itemIDs))
	for _, itemID := range itemIDs {
		identifiers = append(identifiers, resourceIdentifier{ID: strconv.FormatInt(itemID, 10), Type: "item"})
	}
	return resource{
		ID:         strID(id),
		Type:       "merchant",
		Attributes: merchantAttributes{ID: id, Name: name},
		Relationships: map[string]relationship{
			"items": {Data: identifiers},
		},
	}
}

func merchantListDocument(merchants []domain.Merchant, itemIDs map[int64][]int64) document {
	resources := make([]resource, 0, len(merchants))
	for i := range merchants {
		resources = append(resources, merchantResource(merchants[i].ID, merchants[i].Name, itemIDs[merchants[i].ID]))
	}
	return document{Data: resources}
}

func merchantStatsDocument(stats []bi.MerchantStat, itemIDs map[int64][]int64) document {
	resources := make([]resource, 0, len(stats))
	for _, stat := range stats {
		resources = append(resources, merchantResource(stat.ID, stat.Name, itemIDs[stat.ID]))
	}
	return document{Data: resources}
}

func revenueDocument(revenue float64) document {
	return document{Data: resource{
		ID:         nil,
		Attributes: revenueAttributes{Revenue: revenue},
	}}
}

// emptyDocument is the "no match" success body for single finds.
func emptyDocument() document {
	return document{Data: map[string]interface{}{}}
}

// loadMerchantItemIDs fetches the item ids of each given merchant in
// one query, for relationship identifiers.
func loadMerchantItemIDs(db *gorm.DB, merchantIDs []int64) (map[int64][]int64, error) {
	ids := make(map[int64][]int64, len(merchantIDs))
	if len(merchantIDs) == 0 {
		return ids, nil
	}
	var rows []struct {
		ID         int64
		MerchantID int64
	}
	err := db.Model(&domain.Item{}).
		Select("id, merchant_id").
		Where("merchant_id IN ?", merchantIDs).
		Order("id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		ids[row.MerchantID] = append(ids[row.MerchantID], row.ID)
	}
	return ids, nil
}
