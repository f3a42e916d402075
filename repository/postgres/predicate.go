package postgres

import (
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/dealdesk/backend/repository"
)

// renderPredicate materializes the abstract predicate tree into goqu
// expressions. Column identifiers come from the repository whitelist and
// every value ends up as a bound parameter.
func renderPredicate(p repository.Predicate) (exp.Expression, error) {
	switch p.Op {
	case repository.OpTrue:
		return goqu.L("TRUE"), nil
	case repository.OpAnd:
		children, err := renderChildren(p.Args)
		if err != nil {
			return nil, err
		}
		return goqu.And(children...), nil
	case repository.OpOr:
		children, err := renderChildren(p.Args)
		if err != nil {
			return nil, err
		}
		return goqu.Or(children...), nil
	case repository.OpEq:
		return goqu.C(p.Column).Eq(p.Value), nil
	case repository.OpGe:
		return goqu.C(p.Column).Gte(p.Value), nil
	case repository.OpLe:
		return goqu.C(p.Column).Lte(p.Value), nil
	case repository.OpLike:
		term, ok := p.Value.(string)
		if !ok {
			return nil, fmt.Errorf("like predicate on %s: value is %T, not string", p.Column, p.Value)
		}
		return goqu.C(p.Column).ILike("%" + escapeLikeTerm(term) + "%"), nil
	default:
		return nil, fmt.Errorf("unknown predicate op %d", p.Op)
	}
}

func renderChildren(preds []repository.Predicate) ([]exp.Expression, error) {
	children := make([]exp.Expression, 0, len(preds))
	for _, child := range preds {
		rendered, err := renderPredicate(child)
		if err != nil {
			return nil, err
		}
		children = append(children, rendered)
	}
	return children, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLikeTerm neutralizes LIKE wildcards so a search term only ever
// matches itself as a substring.
func escapeLikeTerm(term string) string {
	return likeEscaper.Replace(term)
}

// orderExpressions emits the whitelisted ordering clause with the id ASC
// tiebreak that keeps pagination stable.
func orderExpressions(sort repository.Sort) []exp.OrderedExpression {
	primary := goqu.C(sort.Key).Desc()
	if sort.Direction == repository.SortAsc {
		primary = goqu.C(sort.Key).Asc()
	}
	return []exp.OrderedExpression{primary, goqu.C(repository.ColID).Asc()}
}
