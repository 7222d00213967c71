package importer

import (
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/odnamestaj/catalog/internal/domain"
	"github.com/panjf2000/ants/v2"
	"github.com/spf13/cast"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	defaultName     = "Product"
	defaultCategory = "other"
)

// Candidate source keys per target field, first non-empty wins.
var (
	nameKeys        = []string{"nameLocal", "title", "name"}
	descriptionKeys = []string{"descriptionLocal", "description"}
	priceKeys       = []string{"priceLocal", "price"}
	categoryKeys    = []string{"categoryLocal", "category"}
	dimensionsKeys  = []string{"dimensionsLocal", "dimensions"}
	materialKeys    = []string{"materialLocal", "material"}
	imagesKeys      = []string{"imagesLocal", "images"}
	featuredKeys    = []string{"featuredLocal", "featured"}
)

const availableKey = "available"

// option is an explicitly present-or-missing source value.
type option struct {
	value interface{}
	ok    bool
}

func none() option { return option{} }

func some(v interface{}) option { return option{value: v, ok: true} }

// firstTruthy returns the first candidate holding a non-empty value.
func firstTruthy(item map[string]interface{}, keys ...string) option {
	for _, k := range keys {
		if v, found := item[k]; found && truthy(v) {
			return some(v)
		}
	}
	return none()
}

// present returns the value of key whenever the key exists, even if empty.
func present(item map[string]interface{}, key string) option {
	if v, found := item[key]; found {
		return some(v)
	}
	return none()
}

// firstText returns the first candidate that reads as a non-blank string.
func firstText(item map[string]interface{}, keys ...string) option {
	for _, k := range keys {
		v, found := item[k]
		if !found || v == nil {
			continue
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			return some(s)
		}
	}
	return none()
}

func truthy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return cast.ToFloat64(v) != 0
	}
	return true
}

func toBool(v interface{}) bool {
	if b, err := cast.ToBoolE(v); err == nil {
		return b
	}
	return truthy(v)
}

func toPrice(v interface{}) float64 {
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

func toImages(v interface{}) []string {
	images := []string{}
	switch val := v.(type) {
	case string:
		return append(images, val)
	case []string:
		for _, s := range val {
			if s != "" {
				images = append(images, s)
			}
		}
	case []interface{}:
		for _, e := range val {
			s, err := cast.ToStringE(e)
			if err == nil && s != "" {
				images = append(images, s)
			}
		}
	}
	return images
}

func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// MapItem normalizes one external object into a FurnitureProduct.
// It never fails: missing or malformed fields fall back to defaults.
func MapItem(item map[string]interface{}) domain.FurnitureProduct {
	p := domain.FurnitureProduct{
		Name:      defaultName,
		Category:  defaultCategory,
		Images:    []string{},
		Available: true,
	}
	if item == nil {
		return p
	}

	if o := firstText(item, nameKeys...); o.ok {
		p.Name = o.value.(string)
	}
	if o := firstText(item, descriptionKeys...); o.ok {
		p.Description = o.value.(string)
	}
	if o := firstTruthy(item, priceKeys...); o.ok {
		p.Price = toPrice(o.value)
	}
	if o := firstText(item, categoryKeys...); o.ok {
		p.Category = o.value.(string)
	}
	p.Category = lower(p.Category)
	if o := firstText(item, dimensionsKeys...); o.ok {
		p.Dimensions = o.value.(string)
	}
	if o := firstText(item, materialKeys...); o.ok {
		p.Material = o.value.(string)
	}
	if o := firstTruthy(item, imagesKeys...); o.ok {
		p.Images = toImages(o.value)
	}
	if o := firstTruthy(item, featuredKeys...); o.ok {
		p.Featured = toBool(o.value)
	}
	// available is checked for key presence, unlike the other fields.
	if o := present(item, availableKey); o.ok {
		p.Available = toBool(o.value)
	}
	return p
}

func asObject(v interface{}) map[string]interface{} {
	if m, ok := v.(map[string]interface{}); ok {
		return m
	}
	return nil
}

// MapItems maps items on pool (inline when pool is nil or released).
// The result has the same order as items.
func MapItems(pool *ants.Pool, items []interface{}) []domain.FurnitureProduct {
	out := make([]domain.FurnitureProduct, len(items))
	var wg sync.WaitGroup
	for i, raw := range items {
		i, raw := i, raw
		wg.Add(1)
		task := func() {
			defer wg.Done()
			out[i] = MapItem(asObject(raw))
		}
		if pool == nil || pool.Submit(task) != nil {
			task()
		}
	}
	wg.Wait()
	return out
}
