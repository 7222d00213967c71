package domain

// Collections lists every collection the service writes to.
var Collections = []string{
	FurnitureProductCollection,
}
