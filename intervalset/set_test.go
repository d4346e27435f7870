package intervalset

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkSet(ivs ...Interval) Set { return New(ivs...) }

func TestAddMergesAndCoalesces(t *testing.T) {
	s := mkSet(Interval{10, 20}, Interval{40, 60})
	s.Add(5, 15)
	assert.Equal(t, []Interval{{5, 20}, {40, 60}}, s.Intervals())

	s.Add(3, 37)
	assert.Equal(t, []Interval{{3, 37}, {40, 60}}, s.Intervals())
}

func TestSubtractScenario(t *testing.T) {
	s := mkSet(Interval{20, 40}, Interval{60, 80}, Interval{100, 140}, Interval{150, 200})
	minus := mkSet(Interval{30, 60}, Interval{75, 120})
	got := Subtract(s, minus)
	want := []Interval{{20, 30}, {60, 75}, {120, 140}, {150, 200}}
	assert.Equal(t, want, got.Intervals())
}

func TestContains(t *testing.T) {
	s := mkSet(Interval{10, 20}, Interval{30, 31})
	assert.False(t, s.Contains(9))
	assert.True(t, s.Contains(10))
	assert.True(t, s.Contains(19))
	assert.False(t, s.Contains(20))
	assert.True(t, s.Contains(30))
	assert.False(t, s.Contains(31))
}

func TestSetAlgebraLaws(t *testing.T) {
	a := mkSet(Interval{0, 10}, Interval{20, 30}, Interval{50, 60})
	b := mkSet(Interval{5, 25}, Interval{40, 55})
	c := mkSet(Interval{1, 2}, Interval{45, 100})

	assert.True(t, Equal(Union(a, a), a), "A ∪ A = A")
	assert.True(t, Equal(Intersect(a, a), a), "A ∩ A = A")
	assert.Equal(t, uint64(0), Subtract(a, a).Len(), "A − A = ∅")

	assert.True(t, Equal(Union(a, b), Union(b, a)), "∪ commutative")
	assert.True(t, Equal(Intersect(a, b), Intersect(b, a)), "∩ commutative")
	assert.True(t, Equal(Union(Union(a, b), c), Union(a, Union(b, c))), "∪ associative")
	assert.True(t, Equal(Intersect(Intersect(a, b), c), Intersect(a, Intersect(b, c))), "∩ associative")

	notAUnionB := Union(a, b).Invert()
	notAIntersectNotB := Intersect(a.Invert(), b.Invert())
	assert.True(t, Equal(notAUnionB, notAIntersectNotB), "De Morgan: ¬(A∪B) = ¬A∩¬B")

	for _, x := range []uint32{0, 4, 5, 9, 10, 24, 25, 29, 41, 54, 59} {
		assert.Equal(t, a.Contains(x) || b.Contains(x), Union(a, b).Contains(x), "pointwise union at %d", x)
	}
}

func TestInvertRoundTrip(t *testing.T) {
	a := mkSet(Interval{10, 20}, Interval{30, 40})
	assert.True(t, Equal(a, a.Invert().Invert()))
}

func TestInvertEmptyAndFull(t *testing.T) {
	var empty Set
	full := empty.Invert()
	assert.Equal(t, []Interval{{0, MaxCodepoint}}, full.Intervals())
	assert.True(t, Equal(full.Invert(), empty))
}

func TestCloneIsIndependent(t *testing.T) {
	a := mkSet(Interval{0, 10})
	b := a.Clone()
	b.Add(20, 30)
	assert.Equal(t, []Interval{{0, 10}}, a.Intervals())
	assert.Equal(t, []Interval{{0, 10}, {20, 30}}, b.Intervals())
}

func TestIntervalIterator(t *testing.T) {
	s := mkSet(Interval{0, 10}, Interval{20, 30}, Interval{40, 50})
	it := s.IntervalIter()
	var got []Interval
	for {
		iv, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, iv)
	}
	assert.Equal(t, s.Intervals(), got)

	for {
		iv, ok := it.Prev()
		if !ok {
			break
		}
		got = append(got, iv)
	}
}

func TestCodepointIterator(t *testing.T) {
	s := mkSet(Interval{3, 6}, Interval{10, 12})
	it := s.CodepointIter()
	var got []uint32
	for {
		c, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, c)
	}
	require.Equal(t, []uint32{3, 4, 5, 10, 11}, got)
}

func TestSkipUpToSplitsAtOddIndexIntoDegenerateInterval(t *testing.T) {
	bs := []uint32{10, 20, 40, 60}
	out, cursor := skipUpTo(bs, 0, 15)
	assert.Equal(t, []uint32{15, 15, 20, 40, 60}, out)
	assert.Equal(t, 0, cursor)
	assert.Equal(t, 0, cursor%2, "cursor must land on an even (start) index")
}

func TestSkipUpToOnExistingStartIsNoop(t *testing.T) {
	bs := []uint32{10, 20, 40, 60}
	out, cursor := skipUpTo(bs, 0, 10)
	assert.Equal(t, bs, out)
	assert.Equal(t, 0, cursor)
}

func TestSkipUpToPastEndLandsOnNextStart(t *testing.T) {
	bs := []uint32{10, 20, 40, 60}
	out, cursor := skipUpTo(bs, 0, 25)
	assert.Equal(t, bs, out)
	assert.Equal(t, 2, cursor)
}

func TestDropUpToRemovesPrefix(t *testing.T) {
	bs := []uint32{10, 20, 40, 60}
	out := dropUpTo(bs, 0, 25)
	assert.Equal(t, []uint32{40, 60}, out)
}

func TestRemove(t *testing.T) {
	s := mkSet(Interval{10, 20})
	s.Remove(12, 15)
	assert.Equal(t, []Interval{{10, 12}, {15, 20}}, s.Intervals())
}

// evalEmitted interprets the emitted predicate's function body directly
// from its AST, so the round-trip test below exercises the exact bisection
// and comparison logic EmitPredicate generated rather than a hand-written
// stand-in for it.
func evalEmitted(t *testing.T, body []ast.Stmt, c rune) bool {
	t.Helper()
	v, ok := evalStmts(body, c)
	require.True(t, ok, "emitted predicate fell through without a return for c=%#x", c)
	return v
}

func evalStmts(stmts []ast.Stmt, c rune) (bool, bool) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.IfStmt:
			if evalCond(s.Cond, c) {
				if v, ok := evalStmts(s.Body.List, c); ok {
					return v, true
				}
			} else if s.Else != nil {
				block := s.Else.(*ast.BlockStmt)
				if v, ok := evalStmts(block.List, c); ok {
					return v, true
				}
			}
		case *ast.ReturnStmt:
			return s.Results[0].(*ast.Ident).Name == "true", true
		}
	}
	return false, false
}

func evalCond(e ast.Expr, c rune) bool {
	b := e.(*ast.BinaryExpr)
	switch b.Op {
	case token.LAND:
		return evalCond(b.X, c) && evalCond(b.Y, c)
	case token.LSS:
		return evalOperand(b.X, c) < evalOperand(b.Y, c)
	case token.GEQ:
		return evalOperand(b.X, c) >= evalOperand(b.Y, c)
	case token.EQL:
		return evalOperand(b.X, c) == evalOperand(b.Y, c)
	default:
		panic("unsupported operator in emitted predicate")
	}
}

func evalOperand(e ast.Expr, c rune) int64 {
	switch n := e.(type) {
	case *ast.Ident:
		return int64(c)
	case *ast.BasicLit:
		v, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			panic(err)
		}
		return v
	default:
		panic("unsupported operand in emitted predicate")
	}
}

func parseEmittedBody(t *testing.T, src string) []ast.Stmt {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "", "package p\n"+src, 0)
	require.NoError(t, err, "emitted predicate source must parse:\n%s", src)
	fn := f.Decls[0].(*ast.FuncDecl)
	return fn.Body.List
}

// TestEmitPredicateRoundTrips checks that the emitted predicate's bisection
// and boundary comparisons agree with Set.Contains pointwise across the
// ASCII/non-ASCII boundary and every interval edge, catching an off-by-one
// in emitBisect/emitRangeCheck that a substring check on the source text
// would miss.
func TestEmitPredicateRoundTrips(t *testing.T) {
	s := mkSet(
		Interval{0, 1},
		Interval{0x41, 0x5b},
		Interval{0x7f, 0x80},
		Interval{0x100, 0x101},
		Interval{0x2000, 0x2010},
		Interval{0x10000, 0x10005},
	)
	src := s.EmitPredicate("isFoo")
	assert.Contains(t, src, "func isFoo(c rune) bool")
	body := parseEmittedBody(t, src)

	for c := rune(0); c < 0x10010; c++ {
		want := s.Contains(uint32(c))
		got := evalEmitted(t, body, c)
		assert.Equal(t, want, got, "mismatch at c=%#x", c)
	}
}
