package model

import "time"

// Product is a purchasable offering under a camp.  Each product carries a
// base price and the name of the registration form template guardians fill
// in.  Ingested purchases attach the camp's default product when one
// exists.
//
// Fields:
//  ID             – primary key identifier.
//  CampID         – camp this product belongs to.
//  Name           – product display name.
//  BasePriceCents – base price in cents.
//  FormTemplate   – identifier of the registration form template.
//  CreatedAt      – creation timestamp.
type Product struct {
	ID             uint64    `json:"id"`               // products.id
	CampID         uint64    `json:"camp_id"`          // products.camp_id
	Name           string    `json:"name"`             // products.name
	BasePriceCents uint32    `json:"base_price_cents"` // products.base_price_cents
	FormTemplate   string    `json:"form_template"`    // products.form_template
	CreatedAt      time.Time `json:"created_at"`       // products.created_at
}
