package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/dietlog/server/db/pkg/dbtest"
	"github.com/dietlog/server/db/pkg/sqlc/gen"
	"github.com/dietlog/server/db/pkg/sqlitelocal"
	"github.com/dietlog/server/pkg/idwrap"
	"github.com/dietlog/server/pkg/logger/mocklogger"
	"github.com/dietlog/server/pkg/model/maccount"
	"github.com/dietlog/server/pkg/model/mdish"
	"github.com/dietlog/server/pkg/model/mgroup"
	"github.com/dietlog/server/pkg/model/mmeal"
	"github.com/dietlog/server/pkg/service/saccount"
	"github.com/dietlog/server/pkg/service/sdish"
	"github.com/dietlog/server/pkg/service/sgroup"
	"github.com/dietlog/server/pkg/service/smeal"
)

type BaseDBQueries struct {
	Queries *gen.Queries
	DB      *sql.DB
	t       *testing.T
	ctx     context.Context
}

type BaseTestServices struct {
	DB *sql.DB
	As saccount.AccountService
	Gs sgroup.GroupService
	Ms smeal.MealService
	Ds sdish.DishService
}

func CreateBaseDB(ctx context.Context, t *testing.T) *BaseDBQueries {
	t.Helper()
	db, queries, err := dbtest.GetTestQueries(ctx)
	if err != nil {
		t.Fatal(err)
	}
	return &BaseDBQueries{Queries: queries, t: t, ctx: ctx, DB: db}
}

// CreateFileDB opens a database file in a temporary directory with the
// server's connection settings. Unlike CreateBaseDB the pool is not limited to
// one connection, so concurrent transactions really contend for the lock.
func CreateFileDB(ctx context.Context, t *testing.T) *BaseDBQueries {
	t.Helper()
	local, err := sqlitelocal.Open(ctx, filepath.Join(t.TempDir(), "dietlog.db"))
	if err != nil {
		t.Fatal(err)
	}
	return &BaseDBQueries{Queries: gen.New(local.DB), t: t, ctx: ctx, DB: local.DB}
}

func (c BaseDBQueries) GetBaseServices() BaseTestServices {
	mockLogger := mocklogger.NewMockLogger()
	return BaseTestServices{
		DB: c.DB,
		As: saccount.New(c.Queries, mockLogger),
		Gs: sgroup.New(c.Queries, mockLogger),
		Ms: smeal.New(c.Queries, mockLogger),
		Ds: sdish.New(c.Queries, mockLogger),
	}
}

func (c BaseDBQueries) Close() {
	if err := c.DB.Close(); err != nil {
		c.t.Error(err)
	}
}

// CreateAccount stores an account that is not in any group.
func (c BaseDBQueries) CreateAccount(name string, adviser bool) idwrap.IDWrap {
	c.t.Helper()
	id := idwrap.NewNow()
	err := c.GetBaseServices().As.Create(c.ctx, maccount.Account{
		ID:        id,
		Email:     fmt.Sprintf("%s-%s@example.com", name, id),
		Name:      name,
		IsAdviser: adviser,
	})
	if err != nil {
		c.t.Fatal(err)
	}
	return id
}

// CreateGroup stores a group and appends it to the adviser's order.
func (c BaseDBQueries) CreateGroup(adviserID idwrap.IDWrap, name string) idwrap.IDWrap {
	c.t.Helper()
	gs := c.GetBaseServices().Gs
	id := idwrap.NewNow()
	if err := gs.Create(c.ctx, mgroup.Group{ID: id, Name: name, LastAdviserID: &adviserID}); err != nil {
		c.t.Fatal(err)
	}
	if err := gs.Append(c.ctx, id, adviserID); err != nil {
		c.t.Fatal(err)
	}
	return id
}

// CreateMeal stores a meal and appends it to day.
func (c BaseDBQueries) CreateMeal(accountID idwrap.IDWrap, day, name string) idwrap.IDWrap {
	c.t.Helper()
	ms := c.GetBaseServices().Ms
	id := idwrap.NewNow()
	if err := ms.Create(c.ctx, mmeal.Meal{ID: id, AccountID: accountID, Name: name}); err != nil {
		c.t.Fatal(err)
	}
	if err := ms.AppendToDay(c.ctx, id, day); err != nil {
		c.t.Fatal(err)
	}
	return id
}

// CreateDish stores a dish and appends it to the meal.
func (c BaseDBQueries) CreateDish(accountID, mealID idwrap.IDWrap, name string, grams float64) idwrap.IDWrap {
	c.t.Helper()
	ds := c.GetBaseServices().Ds
	id := idwrap.NewNow()
	if err := ds.Create(c.ctx, mdish.Dish{ID: id, AccountID: accountID, Name: name, Grams: grams}); err != nil {
		c.t.Fatal(err)
	}
	if err := ds.AppendToMeal(c.ctx, id, mealID); err != nil {
		c.t.Fatal(err)
	}
	return id
}

func AssertFatal[c comparable](t *testing.T, expected, got c) {
	t.Helper()
	if got != expected {
		t.Fatalf("got %v, expected %v", got, expected)
	}
}

func Assert[c comparable](t *testing.T, expected, got c) {
	t.Helper()
	if got != expected {
		t.Errorf("got %v, expected %v", got, expected)
	}
}
