package repositories

import (
	"sort"
	"strings"

	"catalog/internal/models"
)

// Stores without a text index rank search results by term frequency: a
// product matches when any term occurs in its name or description, and its
// score is the total number of occurrences.

func searchTerms(q string) []string {
	seen := make(map[string]bool)
	var terms []string
	for _, t := range strings.Fields(strings.ToLower(q)) {
		if !seen[t] {
			seen[t] = true
			terms = append(terms, t)
		}
	}
	return terms
}

func relevance(terms []string, p models.Product) int {
	name := strings.ToLower(p.Name)
	description := strings.ToLower(p.Description)
	score := 0
	for _, t := range terms {
		score += strings.Count(name, t) + strings.Count(description, t)
	}
	return score
}

// rankByRelevance drops products with no matching term and orders the rest
// by score, newest first among equal scores.
func rankByRelevance(products []models.Product, terms []string) []models.Product {
	type scored struct {
		product models.Product
		score   int
	}
	matches := make([]scored, 0, len(products))
	for _, p := range products {
		if s := relevance(terms, p); s > 0 {
			matches = append(matches, scored{product: p, score: s})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].product.CreatedAt.After(matches[j].product.CreatedAt)
	})

	ranked := make([]models.Product, len(matches))
	for i, m := range matches {
		ranked[i] = m.product
	}
	return ranked
}

// page returns the [offset, offset+limit) window of products.
func page(products []models.Product, offset, limit int) []models.Product {
	if offset < 0 || offset >= len(products) {
		return []models.Product{}
	}
	end := len(products)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return products[offset:end]
}
