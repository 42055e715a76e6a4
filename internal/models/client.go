// internal/models/client.go
package models

// Client is a bakery customer. Email uniqueness is enforced by the store and
// surfaces as a conflict, never a crash.
type Client struct {
	IDClient  int64  `json:"id_client" gorm:"column:id_client;primaryKey;autoIncrement"`
	Nom       string `json:"nom" gorm:"column:nom;size:255;not null"`
	Email     string `json:"email" gorm:"column:email;size:255;uniqueIndex;not null"`
	Adresse   string `json:"adresse" gorm:"column:adresse;type:text"`
	Telephone string `json:"telephone" gorm:"column:telephone;size:30"`
}

func (Client) TableName() string {
	return "clients"
}
