package compiler

import (
	"errors"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/repogen/compiler/gen"
	"github.com/syssam/repogen/compiler/load"
)

func TestDiagnostic_Error(t *testing.T) {
	d := &Diagnostic{Entity: "Account", Err: errors.New("missing pool")}
	assert.Equal(t, "missing pool", d.Error())

	d.Pos = token.Position{Filename: "account.go", Line: 3, Column: 1}
	assert.Equal(t, "account.go:3:1: missing pool", d.Error())
	assert.Equal(t, d.Err, errors.Unwrap(d))
}

func TestNewDiagnostic_PrefersErrorPosition(t *testing.T) {
	entityPos := token.Position{Filename: "account.go", Line: 9, Column: 6}
	directivePos := token.Position{Filename: "account.go", Line: 5, Column: 1}

	d := newDiagnostic("Account", entityPos, &load.SyntaxError{Entity: "Account", Message: "bad", Pos: directivePos})
	assert.Equal(t, directivePos, d.Pos)

	d = newDiagnostic("Account", entityPos, &load.SyntaxError{Entity: "Account", Message: "bad"})
	assert.Equal(t, entityPos, d.Pos, "an error without a position keeps the entity's")

	d = newDiagnostic("Account", entityPos, &gen.ConfigError{Entity: "Account", Message: gen.MsgMissingPool})
	assert.Equal(t, entityPos, d.Pos)
}

func TestDiagnostics_Err(t *testing.T) {
	assert.NoError(t, Diagnostics(nil).Err())

	ds := Diagnostics{
		{Pos: token.Position{Filename: "b.go", Line: 1}, Entity: "B", Err: errors.New("b")},
		{Pos: token.Position{Filename: "a.go", Line: 7}, Entity: "A2", Err: errors.New("a2")},
		{Pos: token.Position{Filename: "a.go", Line: 2}, Entity: "A1", Err: errors.New("a1")},
	}
	err := ds.Err()
	require.Error(t, err)
	assert.Equal(t, "a.go:2: a1\na.go:7: a2\nb.go:1: b", err.Error())
	assert.Equal(t, "B", ds[0].Entity, "receiver is not reordered")

	var sorted Diagnostics
	require.ErrorAs(t, err, &sorted)
	assert.Equal(t, "A1", sorted[0].Entity)
}

func TestDiagnostics_Unwrap(t *testing.T) {
	cause := &gen.ConfigError{Entity: "Ledger", Option: "repository.pool", Message: gen.MsgMissingPool}
	err := Diagnostics{{Entity: "Ledger", Err: cause}}.Err()
	assert.True(t, gen.IsConfigError(err))
	assert.ErrorIs(t, err, gen.ErrMissingConfig)

	var ce *gen.ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Ledger", ce.Entity)
}

func TestDiagnose(t *testing.T) {
	assert.Nil(t, diagnose(nil))

	syntax := &load.SyntaxError{Entity: "Order", Message: "bad", Pos: token.Position{Filename: "order.go", Line: 4}}
	config := &gen.ConfigError{Entity: "Audit", Message: gen.MsgMissingTableRef}
	ds := diagnose(errors.Join(syntax, errors.Join(config, errors.New("other"))))
	require.Len(t, ds, 3)
	assert.Equal(t, "Order", ds[0].Entity)
	assert.Equal(t, 4, ds[0].Pos.Line)
	assert.Equal(t, "Audit", ds[1].Entity)
	assert.Empty(t, ds[2].Entity)

	d := &Diagnostic{Entity: "Account", Err: errors.New("x")}
	assert.Same(t, d, diagnose(d)[0])
}
