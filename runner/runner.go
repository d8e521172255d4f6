package runner

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ridoystarlord/bakery/entities"
	"github.com/ridoystarlord/bakery/generator"
	"github.com/ridoystarlord/bakery/introspect"
	"github.com/ridoystarlord/bakery/orm"
	"github.com/ridoystarlord/bakery/query"
	"github.com/ridoystarlord/bakery/validator"
)

// AssertionError reports a demo step whose result was not the expected one.
type AssertionError struct {
	Step    string
	Message string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Step, e.Message)
}

func assertf(ok bool, step, format string, args ...any) error {
	if ok {
		return nil
	}
	return &AssertionError{Step: step, Message: fmt.Sprintf(format, args...)}
}

// Runner drives the bakery walkthroughs against a store and narrates each
// step to out.
type Runner struct {
	store *entities.Store
	out   io.Writer
}

func New(store *entities.Store, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{store: store, out: out}
}

func (r *Runner) println(a ...any) {
	fmt.Fprintln(r.out, a...)
}

func (r *Runner) printf(format string, a ...any) {
	fmt.Fprintf(r.out, format, a...)
}

// SetupSQL validates the table descriptors and returns the statements that
// create them.
func SetupSQL(dialect string) ([]string, error) {
	result := validator.ValidateModels(entities.Tables())
	if !result.Valid {
		var msgs []string
		for _, e := range result.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, fmt.Errorf("invalid table definitions: %s", strings.Join(msgs, "; "))
	}
	return generator.GenerateSQL(entities.Tables(), dialect)
}

// Setup creates the bakery and chef tables if they do not exist and checks
// that the store matches their definitions. With dryRun the statements are
// only printed.
func (r *Runner) Setup(ctx context.Context, dryRun bool) error {
	exec := r.store.Executor()
	stmts, err := SetupSQL(exec.Dialect())
	if err != nil {
		return err
	}

	if dryRun {
		r.println("\n================ DRY RUN: Setup Preview ================")
		for _, s := range stmts {
			r.println(s)
		}
		r.println("========================================================")
		r.println("(Dry run only. No tables were created.)")
		return nil
	}

	r.println("🔧 Ensuring tables exist...")
	for i, s := range stmts {
		if _, err := exec.Exec(ctx, query.Statement{SQL: s}); err != nil {
			return fmt.Errorf("create table %s: %w", entities.Tables()[i].TableName, err)
		}
		r.printf("✅ %s table ensured\n", entities.Tables()[i].TableName)
	}

	mismatches, err := introspect.Verify(ctx, exec, entities.Tables())
	if err != nil {
		return fmt.Errorf("verify tables: %w", err)
	}
	if len(mismatches) > 0 {
		for _, m := range mismatches {
			r.printf("   - %s\n", m)
		}
		return fmt.Errorf("%d table mismatch(es) found", len(mismatches))
	}
	return nil
}

// Drop removes the chef table and then the bakery table, with every row in
// them. With dryRun the statements are only printed.
func (r *Runner) Drop(ctx context.Context, dryRun bool) error {
	stmts := generator.GenerateDropSQL(entities.Tables())

	if dryRun {
		r.println("\n================ DRY RUN: Drop Preview =================")
		for _, s := range stmts {
			r.println(s)
		}
		r.println("========================================================")
		r.println("(Dry run only. No tables were dropped.)")
		return nil
	}

	exec := r.store.Executor()
	tables := entities.Tables()
	for i, s := range stmts {
		name := tables[len(tables)-1-i].TableName
		if _, err := exec.Exec(ctx, query.Statement{SQL: s}); err != nil {
			return fmt.Errorf("drop table %s: %w", name, err)
		}
		r.printf("🗑️  %s table dropped\n", name)
	}
	return nil
}

// Reset removes every chef and then every bakery.
func (r *Runner) Reset(ctx context.Context) error {
	chefs, err := r.store.Chefs.DeleteAll(ctx)
	if err != nil {
		return fmt.Errorf("delete chefs: %w", err)
	}
	bakeries, err := r.store.Bakeries.DeleteAll(ctx)
	if err != nil {
		return fmt.Errorf("delete bakeries: %w", err)
	}
	r.printf("🧹 Removed %d chef(s) and %d bakery(ies)\n", chefs, bakeries)
	return nil
}

// Run performs the CRUD walkthrough, then the relationship walkthrough,
// then the joined listing.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.BasicCRUD(ctx); err != nil {
		return fmt.Errorf("basic CRUD: %w", err)
	}
	if err := r.RelationshipSelect(ctx); err != nil {
		return fmt.Errorf("relationship select: %w", err)
	}
	if _, err := r.ChefListing(ctx); err != nil {
		return fmt.Errorf("chef listing: %w", err)
	}
	if _, err := r.BakeryRoster(ctx); err != nil {
		return fmt.Errorf("bakery roster: %w", err)
	}
	r.println("✅ Demo completed.")
	return nil
}

// BasicCRUD inserts a bakery, renames it, gives it a chef, reads it back
// three ways and deletes everything it created. It expects no other
// bakeries in the store.
func (r *Runner) BasicCRUD(ctx context.Context) error {
	const step = "basic CRUD"
	bakeries, chefs := r.store.Bakeries, r.store.Chefs

	bakeryID, err := bakeries.Insert(ctx, entities.BakeryActive{
		Name:         orm.Set("Happy Bakery"),
		ProfitMargin: orm.Set(0.0),
	})
	if err != nil {
		return fmt.Errorf("insert bakery: %w", err)
	}
	r.printf("🥐 Inserted bakery %d: Happy Bakery\n", bakeryID)

	err = bakeries.UpdateByKey(ctx, bakeryID, entities.BakeryActive{
		ID:   orm.Set(bakeryID),
		Name: orm.Set("Sad Bakery"),
	})
	if err != nil {
		return fmt.Errorf("update bakery: %w", err)
	}
	r.printf("✏️  Renamed bakery %d to Sad Bakery\n", bakeryID)

	chefID, err := chefs.Insert(ctx, entities.ChefActive{
		Name:     orm.Set("John"),
		BakeryID: orm.Set(bakeryID),
	})
	if err != nil {
		return fmt.Errorf("insert chef: %w", err)
	}
	r.printf("👨‍🍳 Inserted chef %d: John\n", chefID)

	all, err := bakeries.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("find all bakeries: %w", err)
	}
	if err := assertf(len(all) == 1, step, "expected 1 bakery, found %d", len(all)); err != nil {
		return err
	}

	byKey, err := bakeries.FindByKey(ctx, bakeryID)
	if err != nil {
		return fmt.Errorf("find bakery %d: %w", bakeryID, err)
	}
	if err := assertf(byKey != nil && byKey.ID == bakeryID, step, "bakery %d not found by key", bakeryID); err != nil {
		return err
	}
	if err := assertf(byKey.Name == "Sad Bakery", step, "expected name Sad Bakery, got %q", byKey.Name); err != nil {
		return err
	}

	byName, err := bakeries.FindOne(ctx, entities.BakeryColumns.Name.Eq("Sad Bakery"))
	if err != nil {
		return fmt.Errorf("find bakery by name: %w", err)
	}
	if err := assertf(byName != nil && byName.ID == bakeryID, step, "bakery %d not found by name", bakeryID); err != nil {
		return err
	}
	r.println("🔍 Found Sad Bakery by listing, by key and by name")

	if err := chefs.DeleteByKey(ctx, chefID); err != nil {
		return fmt.Errorf("delete chef: %w", err)
	}
	if err := bakeries.DeleteByKey(ctx, bakeryID); err != nil {
		return fmt.Errorf("delete bakery: %w", err)
	}

	all, err = bakeries.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("find all bakeries: %w", err)
	}
	if err := assertf(len(all) == 0, step, "expected no bakeries after delete, found %d", len(all)); err != nil {
		return err
	}
	r.println("🗑️  Deleted John and Sad Bakery")
	return nil
}

var boulangerieChefs = []string{"Jolie", "Charles", "Madeleine", "Frederic"}

// RelationshipSelect creates La Boulangerie with four chefs and reads them
// back through the bakery's relation.
func (r *Runner) RelationshipSelect(ctx context.Context) error {
	const step = "relationship select"

	bakeryID, err := r.store.Bakeries.Insert(ctx, entities.BakeryActive{
		Name:         orm.Set("La Boulangerie"),
		ProfitMargin: orm.Set(0.0),
	})
	if err != nil {
		return fmt.Errorf("insert bakery: %w", err)
	}
	for _, name := range boulangerieChefs {
		if _, err := r.store.Chefs.Insert(ctx, entities.ChefActive{
			Name:     orm.Set(name),
			BakeryID: orm.Set(bakeryID),
		}); err != nil {
			return fmt.Errorf("insert chef %s: %w", name, err)
		}
	}
	r.printf("🥖 Inserted La Boulangerie with %d chefs\n", len(boulangerieChefs))

	bakery, err := r.store.Bakeries.FindByKey(ctx, bakeryID)
	if err != nil {
		return fmt.Errorf("find bakery %d: %w", bakeryID, err)
	}
	if err := assertf(bakery != nil, step, "bakery %d not found", bakeryID); err != nil {
		return err
	}

	related, err := r.store.ChefsOf(ctx, *bakery)
	if err != nil {
		return fmt.Errorf("find chefs of %s: %w", bakery.Name, err)
	}
	names := make([]string, 0, len(related))
	for _, c := range related {
		names = append(names, c.Name)
	}
	sort.Strings(names)

	want := []string{"Charles", "Frederic", "Jolie", "Madeleine"}
	if err := assertf(strings.Join(names, ",") == strings.Join(want, ","), step,
		"expected chefs %v, got %v", want, names); err != nil {
		return err
	}
	r.printf("🔗 Chefs of %s: %s\n", bakery.Name, strings.Join(names, ", "))
	return nil
}

// ChefListing prints every chef with their bakery, ordered by chef name.
func (r *Runner) ChefListing(ctx context.Context) ([]entities.ChefWithBakery, error) {
	rows, err := r.store.ChefsWithBakery(ctx)
	if err != nil {
		return nil, err
	}
	r.println("📋 Chefs by name:")
	for _, row := range rows {
		r.printf("   - %s (%s)\n", row.ChefName, row.BakeryName)
	}
	return rows, nil
}

// BakeryRoster prints every bakery with its chefs. Bakeries without chefs
// are listed too.
func (r *Runner) BakeryRoster(ctx context.Context) ([]entities.RosterEntry, error) {
	rows, err := r.store.BakeryRoster(ctx)
	if err != nil {
		return nil, err
	}
	r.println("🏠 Bakery roster:")
	for _, row := range rows {
		if row.ChefName == nil {
			r.printf("   - %s: no chefs\n", row.BakeryName)
			continue
		}
		r.printf("   - %s: %s\n", row.BakeryName, *row.ChefName)
	}
	return rows, nil
}
