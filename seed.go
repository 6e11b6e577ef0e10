package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/Govind-619/Storefront/models"
)

type productSeeder interface {
	UpsertProduct(ctx context.Context, p *models.Product) error
}

// seedCatalog upserts the products listed in a JSON file, keyed by SKU
func seedCatalog(ctx context.Context, seeder productSeeder, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}
	var products []models.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return 0, fmt.Errorf("parse seed file: %w", err)
	}

	for i := range products {
		p := &products[i]
		if p.SKU == "" {
			return i, fmt.Errorf("product %q has no sku", p.Name)
		}
		if p.Slug == "" {
			p.Slug = deriveSlug(p.Name, p.SKU)
		}
		if err := seeder.UpsertProduct(ctx, p); err != nil {
			return i, fmt.Errorf("upsert %s: %w", p.SKU, err)
		}
	}
	return len(products), nil
}

// deriveSlug builds a URL slug from the name and SKU. The SKU keeps it
// unique when two products share a name.
func deriveSlug(name, sku string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name + " " + sku) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
