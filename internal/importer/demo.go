package importer

import "github.com/odnamestaj/catalog/internal/domain"

// DemoProducts returns a fresh copy of the sample catalog.
func DemoProducts() []domain.FurnitureProduct {
	return []domain.FurnitureProduct{
		{
			Name:        "Kuhinja Bela Linija",
			Description: "Moderna kuhinja po meri sa integrisanim elementima",
			Price:       2450,
			Category:    "kuhinja",
			Dimensions:  "320x60x220 cm",
			Material:    "medijapan",
			Images:      []string{"https://images.unsplash.com/photo-1556909114-f6e7ad7d3136"},
			Featured:    true,
			Available:   true,
		},
		{
			Name:        "Ormar Klizna Vrata",
			Description: "Plakar sa kliznim vratima i ogledalom",
			Price:       1180,
			Category:    "ormar",
			Dimensions:  "240x65x250 cm",
			Material:    "iverica",
			Images:      []string{"https://images.unsplash.com/photo-1595428774223-ef52624120d2"},
			Featured:    true,
			Available:   true,
		},
		{
			Name:        "Komoda Hrast",
			Description: "Komoda sa četiri fioke od punog drveta",
			Price:       540,
			Category:    "komoda",
			Dimensions:  "120x45x85 cm",
			Material:    "puno drvo",
			Images:      []string{"https://images.unsplash.com/photo-1555041469-a586c61ea9bc"},
			Available:   true,
		},
		{
			Name:        "Trpezarijski Sto Orah",
			Description: "Sto za šest osoba",
			Price:       760,
			Category:    "sto",
			Dimensions:  "180x90x76 cm",
			Material:    "puno drvo",
			Images:      []string{},
			Available:   true,
		},
	}
}
