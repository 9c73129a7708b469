package upcitemdb

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/shelflife/backend/internal/domain"
)

// Normalize maps a UPCItemDB lookup document onto a ProductLookupResult.
//
// The document is found when "total" is positive and "items" holds at least
// one object; only the first item is used. Fields that are missing or carry
// the wrong JSON type are left empty. An error is returned only when the body
// is not a JSON object at all.
func Normalize(body []byte) (domain.ProductLookupResult, error) {
	if !gjson.ValidBytes(body) {
		return domain.NotFound(), fmt.Errorf("%w: invalid JSON", domain.ErrUnexpectedFormat)
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return domain.NotFound(), fmt.Errorf("%w: top-level value is not an object", domain.ErrUnexpectedFormat)
	}

	total := root.Get("total")
	if total.Type != gjson.Number || total.Int() <= 0 {
		return domain.NotFound(), nil
	}

	items := root.Get("items")
	if !items.IsArray() {
		return domain.NotFound(), nil
	}

	first := items.Get("0")
	if !first.IsObject() {
		return domain.NotFound(), nil
	}

	return domain.ProductLookupResult{
		Found:       true,
		Title:       stringField(first, "title"),
		Brand:       stringField(first, "brand"),
		Model:       stringField(first, "model"),
		Category:    stringField(first, "category"),
		Description: stringField(first, "description"),
		ImageURL:    firstImage(first),
	}, nil
}

// stringField returns the trimmed string at name, or "" when it is absent or not a string
func stringField(obj gjson.Result, name string) string {
	v := obj.Get(name)
	if v.Type != gjson.String {
		return ""
	}
	return strings.TrimSpace(v.Str)
}

func firstImage(item gjson.Result) string {
	images := item.Get("images")
	if !images.IsArray() {
		return ""
	}
	for _, img := range images.Array() {
		if img.Type == gjson.String && strings.TrimSpace(img.Str) != "" {
			return strings.TrimSpace(img.Str)
		}
	}
	return ""
}
