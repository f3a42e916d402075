package postgres

import (
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealdesk/backend/repository"
)

func renderSQL(t *testing.T, p repository.Predicate) (string, []any) {
	t.Helper()

	expr, err := renderPredicate(p)
	require.NoError(t, err)

	sqlStr, args, err := dialect.From(dealsTable).
		Prepared(true).
		Select(goqu.C(repository.ColID)).
		Where(expr).
		ToSQL()
	require.NoError(t, err)
	return sqlStr, args
}

func TestRenderLikeBindsTermAsParameter(t *testing.T) {
	sqlStr, args := renderSQL(t, repository.Like(repository.ColName, "acme"))

	assert.Contains(t, sqlStr, "ILIKE")
	assert.Contains(t, sqlStr, "$1")
	assert.NotContains(t, sqlStr, "acme")
	require.Len(t, args, 1)
	assert.Equal(t, "%acme%", args[0])
}

func TestRenderLikeEscapesWildcards(t *testing.T) {
	_, args := renderSQL(t, repository.Like(repository.ColName, `50%_off\`))

	require.Len(t, args, 1)
	assert.Equal(t, `%50\%\_off\\%`, args[0])
}

func TestRenderLikeHostileTermStaysOutOfSQL(t *testing.T) {
	term := `'; DROP TABLE deals; --`
	sqlStr, args := renderSQL(t, repository.Like(repository.ColCompany, term))

	assert.NotContains(t, sqlStr, "DROP TABLE")
	require.Len(t, args, 1)
	assert.Equal(t, "%'; DROP TABLE deals; --%", args[0])
}

func TestRenderComparisonOperators(t *testing.T) {
	sqlStr, args := renderSQL(t, repository.Eq(repository.ColStage, "Won"))
	assert.Contains(t, sqlStr, `"stage"`)
	assert.Equal(t, []any{"Won"}, args)

	sqlStr, _ = renderSQL(t, repository.Ge(repository.ColValue, 100))
	assert.Contains(t, sqlStr, ">=")

	sqlStr, _ = renderSQL(t, repository.Le(repository.ColValue, 900))
	assert.Contains(t, sqlStr, "<=")
}

func TestRenderConjunctionAndDisjunction(t *testing.T) {
	sqlStr, args := renderSQL(t, repository.And(
		repository.Or(
			repository.Like(repository.ColName, "acme"),
			repository.Like(repository.ColCompany, "acme"),
		),
		repository.Eq(repository.ColStage, "New"),
	))

	assert.Contains(t, sqlStr, " OR ")
	assert.Contains(t, sqlStr, " AND ")
	assert.Len(t, args, 3)
}

func TestRenderUnknownOpFails(t *testing.T) {
	_, err := renderPredicate(repository.Predicate{Op: repository.PredicateOp(99)})
	assert.Error(t, err)
}

func TestRenderLikeRejectsNonStringValue(t *testing.T) {
	_, err := renderPredicate(repository.Predicate{
		Op:     repository.OpLike,
		Column: repository.ColName,
		Value:  42,
	})
	assert.Error(t, err)
}

func TestOrderExpressionsAppendIDTiebreak(t *testing.T) {
	sqlStr, _, err := dialect.From(dealsTable).
		Select(goqu.C(repository.ColID)).
		Order(orderExpressions(repository.Sort{Key: repository.ColValue, Direction: repository.SortDesc})...).
		ToSQL()
	require.NoError(t, err)

	assert.Contains(t, sqlStr, `"value" DESC`)
	assert.Contains(t, sqlStr, `"id" ASC`)

	sqlStr, _, err = dialect.From(dealsTable).
		Select(goqu.C(repository.ColID)).
		Order(orderExpressions(repository.Sort{Key: repository.ColName, Direction: repository.SortAsc})...).
		ToSQL()
	require.NoError(t, err)

	assert.Contains(t, sqlStr, `"name" ASC`)
	assert.Contains(t, sqlStr, `"id" ASC`)
}
