// internal/models/product.go
package models

import "github.com/shopspring/decimal"

// Product is a catalog entry. QuantiteStock must never go negative; that
// invariant is owned by the order transaction, not by the store.
type Product struct {
	IDProduit     int64           `json:"id_produit" gorm:"column:id_produit;primaryKey;autoIncrement"`
	Nom           string          `json:"nom" gorm:"column:nom;size:255;not null"`
	Categorie     string          `json:"categorie" gorm:"column:categorie;size:100;index"`
	Description   string          `json:"description" gorm:"column:description;type:text"`
	Prix          decimal.Decimal `json:"prix" gorm:"column:prix;type:decimal(10,2);not null"`
	QuantiteStock int             `json:"quantite_stock" gorm:"column:quantite_stock;not null;default:0"`
}

func (Product) TableName() string {
	return "produits"
}
