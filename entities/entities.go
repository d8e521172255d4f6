// Package entities declares the bakery and chef tables.
package entities

import (
	"github.com/ridoystarlord/bakery/orm"
	"github.com/ridoystarlord/bakery/query"
	"github.com/ridoystarlord/bakery/schema"
)

// Bakery is one row of the bakery table.
type Bakery struct {
	ID           int32   `db:"id,primary,type:serial" json:"id"`
	Name         string  `db:"name,notnull,type:text" json:"name"`
	ProfitMargin float64 `db:"profit_margin,notnull,type:double precision,default:0" json:"profit_margin"`
}

// Chef is one row of the chef table. Every chef works at one bakery.
type Chef struct {
	ID             int32   `db:"id,primary,type:serial" json:"id"`
	Name           string  `db:"name,notnull,type:text" json:"name"`
	ContactDetails *string `db:"contact_details,type:text" json:"contact_details,omitempty"`
	BakeryID       int32   `db:"bakery_id,notnull,type:integer,references:bakery.id" json:"bakery_id"`
}

var (
	BakeryTable = schema.MustLoad("bakery", Bakery{})
	ChefTable   = schema.MustLoad("chef", Chef{})
)

func init() {
	if err := schema.HasMany(BakeryTable, ChefTable, "bakery_id"); err != nil {
		panic(err)
	}
}

// Tables lists every table in creation order.
func Tables() []*schema.Model {
	return []*schema.Model{BakeryTable, ChefTable}
}

var BakeryColumns = struct {
	ID           query.Column
	Name         query.Column
	ProfitMargin query.Column
}{
	ID:           query.C("bakery", "id"),
	Name:         query.C("bakery", "name"),
	ProfitMargin: query.C("bakery", "profit_margin"),
}

var ChefColumns = struct {
	ID             query.Column
	Name           query.Column
	ContactDetails query.Column
	BakeryID       query.Column
}{
	ID:             query.C("chef", "id"),
	Name:           query.C("chef", "name"),
	ContactDetails: query.C("chef", "contact_details"),
	BakeryID:       query.C("chef", "bakery_id"),
}

// BakeryActive is a partial bakery. Only set fields are written.
type BakeryActive struct {
	ID           orm.Value[int32]
	Name         orm.Value[string]
	ProfitMargin orm.Value[float64]
}

func (a BakeryActive) Values() []orm.ColumnValue {
	var vs []orm.ColumnValue
	vs = orm.Append(vs, "id", a.ID)
	vs = orm.Append(vs, "name", a.Name)
	vs = orm.Append(vs, "profit_margin", a.ProfitMargin)
	return vs
}

// ChefActive is a partial chef. ContactDetails set to nil writes NULL.
type ChefActive struct {
	ID             orm.Value[int32]
	Name           orm.Value[string]
	ContactDetails orm.Value[*string]
	BakeryID       orm.Value[int32]
}

func (a ChefActive) Values() []orm.ColumnValue {
	var vs []orm.ColumnValue
	vs = orm.Append(vs, "id", a.ID)
	vs = orm.Append(vs, "name", a.Name)
	vs = orm.Append(vs, "contact_details", a.ContactDetails)
	vs = orm.Append(vs, "bakery_id", a.BakeryID)
	return vs
}
