// internal/models/order.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the commande shell. Total is always server-computed: it starts at
// zero when the shell row is inserted and is finalized inside the same
// transaction that reserves stock. It is never client-supplied.
type Order struct {
	IDCommande   int64           `json:"id_commande" gorm:"column:id_commande;primaryKey;autoIncrement"`
	IDClient     int64           `json:"id_client" gorm:"column:id_client;not null;index"`
	DateCommande time.Time       `json:"date_commande" gorm:"column:date_commande;not null"`
	Total        decimal.Decimal `json:"total" gorm:"column:total;type:decimal(10,2);not null"`

	Items []OrderLine `json:"items,omitempty" gorm:"foreignKey:IDCommande;references:IDCommande"`
}

func (Order) TableName() string {
	return "commandes"
}

// OrderLine is one produit_commande row. PrixUnitaire is the price snapshot
// captured at order time; it must not change if the product's price later
// does.
type OrderLine struct {
	IDProduitCommande int64           `json:"id_produit_commande" gorm:"column:id_produit_commande;primaryKey;autoIncrement"`
	IDCommande        int64           `json:"id_commande" gorm:"column:id_commande;not null;index"`
	IDProduit         int64           `json:"id_produit" gorm:"column:id_produit;not null;index"`
	QuantiteProduit   int             `json:"quantite_produit" gorm:"column:quantite_produit;not null"`
	PrixUnitaire      decimal.Decimal `json:"prix_unitaire" gorm:"column:prix_unitaire;type:decimal(10,2);not null"`

	Product *Product `json:"-" gorm:"foreignKey:IDProduit;references:IDProduit"`
}

func (OrderLine) TableName() string {
	return "produit_commande"
}

// OrderLineView is the line shape returned by the nested order fetch: the
// stored line joined to its product's current name.
type OrderLineView struct {
	IDProduitCommande int64           `json:"id_produit_commande"`
	IDProduit         int64           `json:"id_produit"`
	QuantiteProduit   int             `json:"quantite_produit"`
	PrixUnitaire      decimal.Decimal `json:"prix_unitaire"`
	Nom               string          `json:"nom"`
}

// OrderView is an order with its ordered list of line items embedded.
type OrderView struct {
	IDCommande   int64           `json:"id_commande"`
	IDClient     int64           `json:"id_client"`
	DateCommande time.Time       `json:"date_commande"`
	Total        decimal.Decimal `json:"total"`
	Items        []OrderLineView `json:"items"`
}
