package postgres

import (
	"fmt"
	"strings"

	"github.com/Sudhanshu9000/BazzarNet1.1/internal/repository"
)

// whereBuilder accumulates ANDed predicates with positional arguments.
type whereBuilder struct {
	conditions []string
	args       []any
}

// add appends a predicate; each %s in cond is replaced by the next
// placeholder bound to arg.
func (b *whereBuilder) add(cond string, arg any) {
	b.args = append(b.args, arg)
	b.conditions = append(b.conditions, fmt.Sprintf(cond, fmt.Sprintf("$%d", len(b.args))))
}

func (b *whereBuilder) addRaw(cond string) {
	b.conditions = append(b.conditions, cond)
}

// next returns the placeholder for an argument appended after the predicates.
func (b *whereBuilder) next(arg any) string {
	b.args = append(b.args, arg)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *whereBuilder) clause() string {
	if len(b.conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(b.conditions, " AND ")
}

// productWhere translates a listing filter into one compound predicate over
// the products table aliased as p.
func productWhere(f repository.ProductFilter) *whereBuilder {
	b := &whereBuilder{}
	if f.Search != "" {
		b.add(`p.name ILIKE %s ESCAPE '\'`, containsPattern(f.Search))
	}
	if f.Category != "" {
		b.add("p.category = %s", f.Category)
	}
	if f.StoreID != "" {
		b.add("p.store_id = %s", f.StoreID)
	}
	if f.StoreIDs != nil {
		b.add("p.store_id = ANY(%s::uuid[])", f.StoreIDs)
	}
	return b
}
