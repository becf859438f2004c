package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/filterql/internal/ir"
	"github.com/roach88/filterql/internal/queryir"
)

// SQLCompiler compiles query trees to parameterized SQLite SQL.
//
// All values are parameterized, never interpolated. SELECT statements
// always end in ORDER BY id ASC COLLATE BINARY so result order is stable.
// Pattern predicates use instr and substr rather than LIKE, which SQLite
// matches case-insensitively for ASCII.
type SQLCompiler struct {
	// Columns maps attribute names to column names. Unmapped attributes
	// use the attribute name.
	Columns map[string]string
}

// NewSQLCompiler creates a new SQLCompiler.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{
		Columns: make(map[string]string),
	}
}

// Where compiles q to a WHERE clause fragment (without the keyword) and
// its parameters. All compiles to "1 = 1". Trees that fail
// queryir.Validate are refused.
func (c *SQLCompiler) Where(q queryir.Query) (string, []any, error) {
	if q == nil {
		return "", nil, fmt.Errorf("cannot compile nil query")
	}
	if v := queryir.Validate(q); !v.Valid {
		return "", nil, fmt.Errorf("invalid query: %s", strings.Join(v.Problems, "; "))
	}
	var params []any
	sql, err := c.compile(q, &params)
	if err != nil {
		return "", nil, err
	}
	return sql, params, nil
}

// Select compiles a full SELECT over table returning columns (all columns
// when empty) filtered by q.
func (c *SQLCompiler) Select(table string, columns []string, q queryir.Query) (string, []any, error) {
	where, params, err := c.Where(q)
	if err != nil {
		return "", nil, fmt.Errorf("compile filter: %w", err)
	}

	selectClause := "*"
	if len(columns) > 0 {
		quoted := make([]string, len(columns))
		for i, col := range columns {
			quoted[i] = quoteIdent(col)
		}
		selectClause = strings.Join(quoted, ", ")
	}

	sql := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s",
		selectClause, quoteIdent(table), where, stableOrderKey)
	return sql, params, nil
}

// stableOrderKey is the mandatory ORDER BY of every SELECT.
// COLLATE BINARY keeps text ordering identical across SQLite builds.
const stableOrderKey = "id ASC COLLATE BINARY"

func (c *SQLCompiler) compile(q queryir.Query, params *[]any) (string, error) {
	switch n := q.(type) {
	case queryir.All:
		return "1 = 1", nil
	case queryir.And:
		return c.compileChain("AND", n.Children, params)
	case queryir.Or:
		return c.compileChain("OR", n.Children, params)
	case queryir.Not:
		if n.Child == nil {
			return "", fmt.Errorf("NOT without operand")
		}
		inner, err := c.compile(n.Child, params)
		if err != nil {
			return "", err
		}
		return "NOT (" + inner + ")", nil
	case queryir.Equal:
		return c.compileComparison(n.Attribute.Name, "=", n.Value, params)
	case queryir.LessThan:
		return c.compileComparison(n.Attribute.Name, "<", n.Value, params)
	case queryir.LessThanOrEqual:
		return c.compileComparison(n.Attribute.Name, "<=", n.Value, params)
	case queryir.GreaterThan:
		return c.compileComparison(n.Attribute.Name, ">", n.Value, params)
	case queryir.GreaterThanOrEqual:
		return c.compileComparison(n.Attribute.Name, ">=", n.Value, params)
	case queryir.Between:
		if err := appendParams(params, n.Lower, n.Upper); err != nil {
			return "", fmt.Errorf("BETWEEN on %q: %w", n.Attribute.Name, err)
		}
		return c.column(n.Attribute.Name) + " BETWEEN ? AND ?", nil
	case queryir.In:
		if len(n.Values) == 0 {
			return "", fmt.Errorf("IN on %q has no values", n.Attribute.Name)
		}
		if err := appendParams(params, n.Values...); err != nil {
			return "", fmt.Errorf("IN on %q: %w", n.Attribute.Name, err)
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(n.Values)), ", ")
		return c.column(n.Attribute.Name) + " IN (" + placeholders + ")", nil
	case queryir.StartsWith:
		*params = append(*params, n.Text)
		return "instr(" + c.column(n.Attribute.Name) + ", ?) = 1", nil
	case queryir.EndsWith:
		col := c.column(n.Attribute.Name)
		*params = append(*params, n.Text, n.Text)
		return "substr(" + col + ", length(" + col + ") - length(?) + 1) = ?", nil
	case queryir.Contains:
		*params = append(*params, n.Text)
		return "instr(" + c.column(n.Attribute.Name) + ", ?) > 0", nil
	case queryir.Has:
		return c.column(n.Attribute.Name) + " IS NOT NULL", nil
	default:
		return "", fmt.Errorf("unsupported query type: %T", q)
	}
}

func (c *SQLCompiler) compileChain(op string, children []queryir.Query, params *[]any) (string, error) {
	if len(children) == 0 {
		return "", fmt.Errorf("%s without operands", op)
	}
	parts := make([]string, len(children))
	for i, child := range children {
		sql, err := c.compile(child, params)
		if err != nil {
			return "", err
		}
		parts[i] = sql
	}
	return "(" + strings.Join(parts, " "+op+" ") + ")", nil
}

// compileComparison compiles "column op ?".
func (c *SQLCompiler) compileComparison(attr, op string, v ir.IRValue, params *[]any) (string, error) {
	if err := appendParams(params, v); err != nil {
		return "", fmt.Errorf("%s on %q: %w", op, attr, err)
	}
	return c.column(attr) + " " + op + " ?", nil
}

func (c *SQLCompiler) column(attr string) string {
	if col, ok := c.Columns[attr]; ok {
		return quoteIdent(col)
	}
	return quoteIdent(attr)
}

// quoteIdent double-quotes an SQLite identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func appendParams(params *[]any, values ...ir.IRValue) error {
	for _, v := range values {
		p, err := irValueToParam(v)
		if err != nil {
			return err
		}
		*params = append(*params, p)
	}
	return nil
}

// irValueToParam converts an ir.IRValue to a Go native type for an SQL
// parameter. Only scalars are supported.
func irValueToParam(v ir.IRValue) (any, error) {
	switch val := v.(type) {
	case ir.IRString:
		return string(val), nil
	case ir.IRInt:
		return int64(val), nil
	case ir.IRBool:
		return bool(val), nil
	case nil:
		return nil, fmt.Errorf("missing value")
	default:
		return nil, fmt.Errorf("unsupported IRValue type for SQL parameter: %T", v)
	}
}
