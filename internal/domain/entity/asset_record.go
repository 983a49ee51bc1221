package entity

// AssetKind tipo de activo verificable de una publicación.
type AssetKind string

const (
	AssetKindDocument AssetKind = "document" // documento exigido por la categoría
	AssetKindImage    AssetKind = "image"    // imagen de una variante
	AssetKindModel    AssetKind = "model"    // modelo 3D (opcional)
)

func (k AssetKind) Valid() bool {
	switch k {
	case AssetKindDocument, AssetKindImage, AssetKindModel:
		return true
	}
	return false
}

// AssetRecord estado de verificación de un activo. Pertenece a una sola publicación.
// Label es el tipo de documento o el nombre de la variante según Kind.
type AssetRecord struct {
	ID         string
	ListingID  string
	Kind       AssetKind
	Label      string
	Position   int
	Verified   bool
	Reason     string
	Suggestion string
}
