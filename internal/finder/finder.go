// Package finder resolves single attribute/value search parameters into
// Item or Merchant rows. One field is honored per query; free-text
// fields match case-insensitively by substring, everything else by
// equality. Field names are whitelisted and values are always bound
// parameters, never spliced into SQL text.
package finder

import (
	"context"
	"net/url"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gorm.io/gorm"

	"github.com/commercekit/salesapi/internal/domain"
)

type matchKind int

const (
	matchSubstring matchKind = iota
	matchInt
	matchFloat
	matchTime
)

type fieldSpec struct {
	column string
	kind   matchKind
}

// Field specs are consulted in declared order: when a request carries
// several recognized parameters, the first field listed here wins and
// the rest are ignored.
var (
	itemFields = []fieldSpec{
		{"name", matchSubstring},
		{"description", matchSubstring},
		{"unit_price", matchFloat},
		{"merchant_id", matchInt},
		{"id", matchInt},
		{"created_at", matchTime},
		{"updated_at", matchTime},
	}

	merchantFields = []fieldSpec{
		{"name", matchSubstring},
		{"id", matchInt},
		{"created_at", matchTime},
		{"updated_at", matchTime},
	}
)

// Searcher is the single-field search capability implemented once per
// entity kind.
type Searcher[T any] interface {
	Single(ctx context.Context, field, value string) (*T, error)
	Multi(ctx context.Context, field, value string) ([]T, error)
}

var (
	_ Searcher[domain.Item]     = (*ItemFinder)(nil)
	_ Searcher[domain.Merchant] = (*MerchantFinder)(nil)
)

// ItemFinder searches items by a single field
type ItemFinder struct {
	db *gorm.DB
}

func NewItemFinder(db *gorm.DB) *ItemFinder {
	return &ItemFinder{db: db}
}

// Single returns the first matching item in primary-key order, or
// (nil, nil) when nothing matches.
func (f *ItemFinder) Single(ctx context.Context, field, value string) (*domain.Item, error) {
	scope, err := matchScope(f.db.WithContext(ctx).Model(&domain.Item{}), itemFields, field, value)
	if err != nil {
		return nil, err
	}
	var item domain.Item
	err = scope.Order("id ASC").First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(err, "find item")
	}
	return &item, nil
}

// Multi returns all matching items in primary-key order.
func (f *ItemFinder) Multi(ctx context.Context, field, value string) ([]domain.Item, error) {
	scope, err := matchScope(f.db.WithContext(ctx).Model(&domain.Item{}), itemFields, field, value)
	if err != nil {
		return nil, err
	}
	items := make([]domain.Item, 0)
	if err := scope.Order("id ASC").Find(&items).Error; err != nil {
		return nil, storeErr(err, "find items")
	}
	return items, nil
}

// PickParam selects the search parameter to honor from a request's
// query values, in the declared field priority order.
func (f *ItemFinder) PickParam(values url.Values) (field, value string, err error) {
	return pickParam(itemFields, values)
}

// MerchantFinder searches merchants by a single field
type MerchantFinder struct {
	db *gorm.DB
}

func NewMerchantFinder(db *gorm.DB) *MerchantFinder {
	return &MerchantFinder{db: db}
}

// Single returns the first matching merchant in primary-key order, or
// (nil, nil) when nothing matches.
func (f *MerchantFinder) Single(ctx context.Context, field, value string) (*domain.Merchant, error) {
	scope, err := matchScope(f.db.WithContext(ctx).Model(&domain.Merchant{}), merchantFields, field, value)
	if err != nil {
		return nil, err
	}
	var merchant domain.Merchant
	err = scope.Order("id ASC").First(&merchant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(err, "find merchant")
	}
	return &merchant, nil
}

// Multi returns all matching merchants in primary-key order.
func (f *MerchantFinder) Multi(ctx context.Context, field, value string) ([]domain.Merchant, error) {
	scope, err := matchScope(f.db.WithContext(ctx).Model(&domain.Merchant{}), merchantFields, field, value)
	if err != nil {
		return nil, err
	}
	merchants := make([]domain.Merchant, 0)
	if err := scope.Order("id ASC").Find(&merchants).Error; err != nil {
		return nil, storeErr(err, "find merchants")
	}
	return merchants, nil
}

// PickParam selects the search parameter to honor from a request's
// query values, in the declared field priority order.
func (f *MerchantFinder) PickParam(values url.Values) (field, value string, err error) {
	return pickParam(merchantFields, values)
}

// matchScope applies the single-field predicate for a whitelisted
// field. Substring fields use ILIKE on postgres and LOWER(...) LIKE
// elsewhere; typed fields coerce the value first so a malformed value
// fails as an invalid query instead of leaking into the store.
func matchScope(db *gorm.DB, fields []fieldSpec, field, value string) (*gorm.DB, error) {
	spec, ok := lookupField(fields, field)
	if !ok {
		return nil, errors.Wrapf(domain.ErrInvalidQuery, "unrecognized field %q", field)
	}

	switch spec.kind {
	case matchSubstring:
		if strings.EqualFold(db.Name(), "postgres") {
			return db.Where(spec.column+" ILIKE ?", "%"+value+"%"), nil
		}
		return db.Where("LOWER("+spec.column+") LIKE ?", "%"+strings.ToLower(value)+"%"), nil
	case matchInt:
		n, err := cast.ToInt64E(value)
		if err != nil {
			return nil, errors.Wrapf(domain.ErrInvalidQuery, "field %q expects an integer, got %q", field, value)
		}
		return db.Where(spec.column+" = ?", n), nil
	case matchFloat:
		n, err := cast.ToFloat64E(value)
		if err != nil {
			return nil, errors.Wrapf(domain.ErrInvalidQuery, "field %q expects a number, got %q", field, value)
		}
		return db.Where(spec.column+" = ?", n), nil
	case matchTime:
		t, err := dateparse.ParseAny(value)
		if err != nil {
			return nil, errors.Wrapf(domain.ErrInvalidQuery, "field %q expects a timestamp, got %q", field, value)
		}
		return db.Where(spec.column+" = ?", t), nil
	}
	return nil, errors.Wrapf(domain.ErrInvalidQuery, "unrecognized field %q", field)
}

func lookupField(fields []fieldSpec, field string) (fieldSpec, bool) {
	for _, spec := range fields {
		if spec.column == field {
			return spec, true
		}
	}
	return fieldSpec{}, false
}

func pickParam(fields []fieldSpec, values url.Values) (string, string, error) {
	for _, spec := range fields {
		if vs, ok := values[spec.column]; ok && len(vs) > 0 {
			return spec.column, vs[0], nil
		}
	}
	return "", "", errors.Wrap(domain.ErrInvalidQuery, "no recognized search parameter")
}

func storeErr(err error, op string) error {
	return errors.Wrapf(domain.ErrStoreUnavailable, "%s: %v", op, err)
}
