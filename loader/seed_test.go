package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridoystarlord/bakery/database"
	"github.com/ridoystarlord/bakery/entities"
	"github.com/ridoystarlord/bakery/query"
)

const seedYAML = `
bakeries:
  - name: La Boulangerie
    profit_margin: 12.5
    chefs:
      - name: Jolie
        contact_details: jolie@example.com
      - name: Charles
  - name: Happy Bakery
`

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0644))

	sf, err := LoadSeedFile(path)
	require.NoError(t, err)
	require.Len(t, sf.Bakeries, 2)
	assert.Equal(t, 12.5, sf.Bakeries[0].ProfitMargin)
	require.Len(t, sf.Bakeries[0].Chefs, 2)
	assert.Equal(t, "jolie@example.com", *sf.Bakeries[0].Chefs[0].ContactDetails)
	assert.Nil(t, sf.Bakeries[0].Chefs[1].ContactDetails)

	_, err = LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading seed file")
}

func TestParseSeedErrors(t *testing.T) {
	_, err := ParseSeed([]byte("bakeries:\n  - profit_margin: 1\n"))
	assert.ErrorContains(t, err, "bakery 1: name is required")

	_, err = ParseSeed([]byte("bakeries:\n  - name: A\n    chefs:\n      - contact_details: x\n"))
	assert.ErrorContains(t, err, `bakery "A" chef 1: name is required`)

	_, err = ParseSeed([]byte("bakeries: [oops"))
	assert.ErrorContains(t, err, "unmarshalling YAML")
}

func TestApply(t *testing.T) {
	sf, err := ParseSeed([]byte(seedYAML))
	require.NoError(t, err)

	mock := database.NewMockExecutor(query.Postgres).
		AppendQueryResults(
			[]database.Row{{"id": int32(1)}},
			[]database.Row{{"id": int32(10)}},
			[]database.Row{{"id": int32(11)}},
			[]database.Row{{"id": int32(2)}},
		)

	res, err := Apply(context.Background(), entities.NewStore(mock), sf)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Bakeries: 2, Chefs: 2}, res)

	log := mock.Log()
	require.Len(t, log, 4)
	assert.Equal(t, `INSERT INTO "bakery" ("name", "profit_margin") VALUES ($1, $2) RETURNING "id"`, log[0].SQL)
	assert.Equal(t, `INSERT INTO "chef" ("name", "contact_details", "bakery_id") VALUES ($1, $2, $3) RETURNING "id"`, log[1].SQL)
	assert.Equal(t, "jolie@example.com", *log[1].Args[1].(*string))
	assert.Equal(t, int32(1), log[1].Args[2])
	assert.Equal(t, `INSERT INTO "chef" ("name", "bakery_id") VALUES ($1, $2) RETURNING "id"`, log[2].SQL)
}

func TestApplyStopsOnError(t *testing.T) {
	sf, err := ParseSeed([]byte(seedYAML))
	require.NoError(t, err)

	mock := database.NewMockExecutor(query.Postgres).
		AppendQueryResults([]database.Row{{"id": int32(1)}}).
		AppendQueryError(&database.ConstraintError{Msg: "boom"})

	res, err := Apply(context.Background(), entities.NewStore(mock), sf)
	require.Error(t, err)
	assert.True(t, database.IsConstraintError(err))
	assert.Equal(t, SeedResult{Bakeries: 1}, res)
}

func TestParseSeedUnknownKey(t *testing.T) {
	_, err := ParseSeed([]byte("bakeries:\n  - name: A\n    margin: 3\n"))
	assert.ErrorContains(t, err, "margin")

	sf, err := ParseSeed(nil)
	require.NoError(t, err)
	assert.Empty(t, sf.Bakeries)
}
