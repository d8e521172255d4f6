package graph

import (
	"context"

	"go.uber.org/zap"

	"github.com/ridoystarlord/bakery/database"
	"github.com/ridoystarlord/bakery/entities"
	"github.com/ridoystarlord/bakery/orm"
)

type Resolver struct {
	store *entities.Store
	log   *zap.Logger
}

func (r *Resolver) fail(op string, err error) error {
	r.log.Warn("resolver failed", zap.String("op", op), zap.Error(err))
	return err
}

func (r *Resolver) Hello() string {
	return "Hello GraphQL"
}

func (r *Resolver) Bakeries(ctx context.Context) ([]*bakeryResolver, error) {
	bakeries, err := r.store.Bakeries.FindAll(ctx)
	if err != nil {
		return nil, r.fail("bakeries", err)
	}
	out := make([]*bakeryResolver, 0, len(bakeries))
	for _, b := range bakeries {
		out = append(out, &bakeryResolver{b: b, r: r})
	}
	return out, nil
}

func (r *Resolver) Bakery(ctx context.Context, args struct{ ID int32 }) (*bakeryResolver, error) {
	b, err := r.store.Bakeries.FindByKey(ctx, args.ID)
	if err != nil {
		return nil, r.fail("bakery", err)
	}
	if b == nil {
		return nil, nil
	}
	return &bakeryResolver{b: *b, r: r}, nil
}

func (r *Resolver) Chefs(ctx context.Context) ([]*chefResolver, error) {
	chefs, err := r.store.Chefs.FindAll(ctx)
	if err != nil {
		return nil, r.fail("chefs", err)
	}
	return r.chefResolvers(chefs), nil
}

func (r *Resolver) Chef(ctx context.Context, args struct{ ID int32 }) (*chefResolver, error) {
	c, err := r.store.Chefs.FindByKey(ctx, args.ID)
	if err != nil {
		return nil, r.fail("chef", err)
	}
	if c == nil {
		return nil, nil
	}
	return &chefResolver{c: *c, r: r}, nil
}

func (r *Resolver) chefResolvers(chefs []entities.Chef) []*chefResolver {
	out := make([]*chefResolver, 0, len(chefs))
	for _, c := range chefs {
		out = append(out, &chefResolver{c: c, r: r})
	}
	return out
}

func (r *Resolver) AddBakery(ctx context.Context, args struct{ Name string }) (*bakeryResolver, error) {
	id, err := r.store.Bakeries.Insert(ctx, entities.BakeryActive{
		Name:         orm.Set(args.Name),
		ProfitMargin: orm.Set(0.0),
	})
	if err != nil {
		return nil, r.fail("addBakery", err)
	}
	return &bakeryResolver{b: entities.Bakery{ID: id, Name: args.Name}, r: r}, nil
}

func (r *Resolver) AddChef(ctx context.Context, args struct {
	Name           string
	BakeryID       int32
	ContactDetails *string
}) (*chefResolver, error) {
	partial := entities.ChefActive{
		Name:     orm.Set(args.Name),
		BakeryID: orm.Set(args.BakeryID),
	}
	if args.ContactDetails != nil {
		partial.ContactDetails = orm.Set(args.ContactDetails)
	}
	id, err := r.store.Chefs.Insert(ctx, partial)
	if err != nil {
		return nil, r.fail("addChef", err)
	}
	return &chefResolver{c: entities.Chef{
		ID:             id,
		Name:           args.Name,
		ContactDetails: args.ContactDetails,
		BakeryID:       args.BakeryID,
	}, r: r}, nil
}

func (r *Resolver) UpdateBakery(ctx context.Context, args struct {
	ID           int32
	Name         *string
	ProfitMargin *float64
}) (*bakeryResolver, error) {
	var partial entities.BakeryActive
	if args.Name != nil {
		partial.Name = orm.Set(*args.Name)
	}
	if args.ProfitMargin != nil {
		partial.ProfitMargin = orm.Set(*args.ProfitMargin)
	}
	if err := r.store.Bakeries.UpdateByKey(ctx, args.ID, partial); err != nil {
		return nil, r.fail("updateBakery", err)
	}
	b, err := r.store.Bakeries.FindByKey(ctx, args.ID)
	if err != nil {
		return nil, r.fail("updateBakery", err)
	}
	if b == nil {
		return nil, r.fail("updateBakery", &database.NotFoundError{Table: entities.BakeryTable.TableName, Key: args.ID})
	}
	return &bakeryResolver{b: *b, r: r}, nil
}

func (r *Resolver) DeleteChef(ctx context.Context, args struct{ ID int32 }) (bool, error) {
	if err := r.store.Chefs.DeleteByKey(ctx, args.ID); err != nil {
		return false, r.fail("deleteChef", err)
	}
	return true, nil
}

func (r *Resolver) DeleteBakery(ctx context.Context, args struct{ ID int32 }) (bool, error) {
	if err := r.store.Bakeries.DeleteByKey(ctx, args.ID); err != nil {
		return false, r.fail("deleteBakery", err)
	}
	return true, nil
}

type bakeryResolver struct {
	b entities.Bakery
	r *Resolver
}

func (b *bakeryResolver) ID() int32 { return b.b.ID }
func (b *bakeryResolver) Name() string { return b.b.Name }
func (b *bakeryResolver) ProfitMargin() float64 { return b.b.ProfitMargin }

// Chefs loads the chefs of this bakery with one query per bakery.
func (b *bakeryResolver) Chefs(ctx context.Context) ([]*chefResolver, error) {
	chefs, err := b.r.store.ChefsOf(ctx, b.b)
	if err != nil {
		return nil, b.r.fail("Bakery.chefs", err)
	}
	return b.r.chefResolvers(chefs), nil
}

type chefResolver struct {
	c entities.Chef
	r *Resolver
}

func (c *chefResolver) ID() int32 { return c.c.ID }
func (c *chefResolver) Name() string { return c.c.Name }
func (c *chefResolver) ContactDetails() *string { return c.c.ContactDetails }
func (c *chefResolver) BakeryID() int32 { return c.c.BakeryID }

func (c *chefResolver) Bakery(ctx context.Context) (*bakeryResolver, error) {
	b, err := c.r.store.BakeryOf(ctx, c.c)
	if err != nil {
		return nil, c.r.fail("Chef.bakery", err)
	}
	if b == nil {
		return nil, nil
	}
	return &bakeryResolver{b: *b, r: c.r}, nil
}
