package model

// DirectoryKind names a collection in the catalog/provider directory.
type DirectoryKind string

const (
	DirectoryCatalogItem DirectoryKind = "catalog_item"
	DirectoryProvider    DirectoryKind = "provider"
)
