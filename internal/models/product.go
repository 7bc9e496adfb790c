package models

import "time"

// Category is one of the fixed product categories.
type Category string

const (
	CategoryElectronics Category = "Electronics"
	CategoryClothing    Category = "Clothing"
	CategoryBooks       Category = "Books"
	CategoryHomeGarden  Category = "Home & Garden"
	CategorySports      Category = "Sports"
	CategoryOther       Category = "Other"
)

// Categories lists the valid categories in their canonical order.
var Categories = []Category{
	CategoryElectronics,
	CategoryClothing,
	CategoryBooks,
	CategoryHomeGarden,
	CategorySports,
	CategoryOther,
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Product represents a catalog entry.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"-"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null" bson:"name"`
	Description string    `json:"description" gorm:"type:varchar(500);not null" bson:"description"`
	Price       float64   `json:"price" gorm:"not null" bson:"price"`
	Category    Category  `json:"category" gorm:"type:varchar(32);index;not null" bson:"category"`
	InStock     bool      `json:"inStock" gorm:"index" bson:"inStock"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// ProductPayload is the request body for create and update. Pointer fields
// distinguish an omitted field from its zero value; Price stays untyped so a
// non-numeric price reaches validation instead of failing decoding.
type ProductPayload struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       any     `json:"price"`
	Category    *string `json:"category"`
	InStock     *bool   `json:"inStock"`
}

// ProductUpdate is a validated replacement of a product's editable fields.
// InStock is left unchanged when nil.
type ProductUpdate struct {
	Name        string
	Description string
	Price       float64
	Category    Category
	InStock     *bool
}
