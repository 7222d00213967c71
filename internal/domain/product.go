package domain

import "time"

// FurnitureProductCollection is the collection holding catalog items.
const FurnitureProductCollection = "furnitureproduct"

// FurnitureProduct is one catalog item.
// Timestamps and ID are assigned by the store and never taken from clients.
type FurnitureProduct struct {
	ID          string    `bson:"-" json:"id" mapstructure:"_id"`
	Name        string    `bson:"name" json:"name" mapstructure:"name"`
	Description string    `bson:"description,omitempty" json:"description,omitempty" mapstructure:"description"`
	Price       float64   `bson:"price" json:"price" mapstructure:"price"`
	Category    string    `bson:"category" json:"category" mapstructure:"category"`
	Dimensions  string    `bson:"dimensions,omitempty" json:"dimensions,omitempty" mapstructure:"dimensions"`
	Material    string    `bson:"material,omitempty" json:"material,omitempty" mapstructure:"material"`
	Images      []string  `bson:"images" json:"images" mapstructure:"images"`
	Featured    bool      `bson:"featured" json:"featured" mapstructure:"featured"`
	Available   bool      `bson:"available" json:"available" mapstructure:"available"`
	CreatedAt   time.Time `bson:"created_at,omitempty" json:"created_at" mapstructure:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at,omitempty" json:"updated_at" mapstructure:"updated_at"`
}
