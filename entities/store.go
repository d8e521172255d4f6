package entities

import (
	"context"

	"github.com/ridoystarlord/bakery/database"
	"github.com/ridoystarlord/bakery/orm"
	"github.com/ridoystarlord/bakery/query"
)

// Store groups the repositories that share one executor.
type Store struct {
	exec     database.Executor
	Bakeries *orm.Repository[Bakery]
	Chefs    *orm.Repository[Chef]
}

func NewStore(exec database.Executor) *Store {
	return &Store{
		exec:     exec,
		Bakeries: orm.NewRepository[Bakery](exec, BakeryTable),
		Chefs:    orm.NewRepository[Chef](exec, ChefTable),
	}
}

func (s *Store) Executor() database.Executor { return s.exec }

// ChefsOf returns the chefs working at b, in store order.
func (s *Store) ChefsOf(ctx context.Context, b Bakery) ([]Chef, error) {
	return orm.FindRelated[Bakery, Chef](ctx, s.exec, BakeryTable, ChefTable, b)
}

// BakeryOf returns the bakery c works at, or nil if it is gone.
func (s *Store) BakeryOf(ctx context.Context, c Chef) (*Bakery, error) {
	found, err := orm.FindRelated[Chef, Bakery](ctx, s.exec, ChefTable, BakeryTable, c)
	if err != nil || len(found) == 0 {
		return nil, err
	}
	return &found[0], nil
}

// ChefWithBakery is a chef name joined to the name of their bakery.
type ChefWithBakery struct {
	ChefName   string `db:"chef_name"`
	BakeryName string `db:"bakery_name"`
}

// RosterEntry pairs a bakery with one of its chefs. ChefName is nil for a
// bakery without chefs.
type RosterEntry struct {
	BakeryName string  `db:"bakery_name"`
	ChefName   *string `db:"chef_name"`
}

// BakeryRoster lists every bakery with each of its chefs, keeping bakeries
// that have none, ordered by bakery name and then chef name.
func (s *Store) BakeryRoster(ctx context.Context) ([]RosterEntry, error) {
	b := query.Select(BakeryTable,
		BakeryColumns.Name.As("bakery_name"),
		ChefColumns.Name.As("chef_name"),
	).
		LeftJoin(ChefTable, BakeryColumns.ID, ChefColumns.BakeryID).
		OrderBy(query.Asc(BakeryColumns.Name), query.Asc(ChefColumns.Name))
	return orm.SelectAs[RosterEntry](ctx, s.exec, b)
}

// ChefsWithBakery lists every chef with their bakery, ordered by chef name.
func (s *Store) ChefsWithBakery(ctx context.Context) ([]ChefWithBakery, error) {
	b := query.Select(ChefTable,
		ChefColumns.Name.As("chef_name"),
		BakeryColumns.Name.As("bakery_name"),
	).
		InnerJoin(BakeryTable, ChefColumns.BakeryID, BakeryColumns.ID).
		OrderBy(query.Asc(ChefColumns.Name))
	return orm.SelectAs[ChefWithBakery](ctx, s.exec, b)
}
