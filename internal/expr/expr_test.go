package expr

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/archetype/internal/props"
	"github.com/zclconf/go-cty/cty"
)

func parseExpr(t *testing.T, src string) hcl.Expression {
	t.Helper()
	e, diags := hclsyntax.ParseExpression([]byte(src), "test.hcl", hcl.InitialPos)
	require.False(t, diags.HasErrors(), diags.Error())
	return e
}

func newProps(t *testing.T) *props.Context {
	t.Helper()
	pc := props.New(props.PolicyFail)
	require.NoError(t, pc.Declare("name", cty.StringVal("demo"), true))
	require.NoError(t, pc.Declare("gradle", cty.True, true))
	require.NoError(t, pc.Declare("docker", cty.False, true))
	return pc
}

func TestEvalLiteral(t *testing.T) {
	t.Parallel()
	pc := newProps(t)

	v, err := Eval(parseExpr(t, `"hello"`), pc)
	require.NoError(t, err)
	assert.Equal(t, "hello", v.AsString())
}

func TestEvalPropertyReference(t *testing.T) {
	t.Parallel()
	pc := newProps(t)

	v, err := Eval(parseExpr(t, `name`), pc)
	require.NoError(t, err)
	assert.Equal(t, "demo", v.AsString())
}

func TestEvalInterpolation(t *testing.T) {
	t.Parallel()
	pc := newProps(t)

	v, err := EvalString(parseExpr(t, `"app-${name}"`), pc)
	require.NoError(t, err)
	assert.Equal(t, "app-demo", v)
}

func TestEvalUndeclaredReference(t *testing.T) {
	t.Parallel()
	pc := newProps(t)

	_, err := Eval(parseExpr(t, `"v-${nmae}"`), pc)

	var unresolved *props.UnresolvedPropertyError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "nmae", unresolved.Name)
	assert.Equal(t, "name", unresolved.Suggestion)
}

func TestGuardAllIfTermsHold(t *testing.T) {
	t.Parallel()
	pc := newProps(t)

	ok, err := Guard([]string{"gradle", "name"}, nil, pc)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGuardFailingIfTerm(t *testing.T) {
	t.Parallel()
	pc := newProps(t)

	ok, err := Guard([]string{"gradle", "docker"}, nil, pc)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGuardNegation(t *testing.T) {
	t.Parallel()
	pc := newProps(t)

	ok, err := Guard([]string{"!docker"}, nil, pc)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Guard([]string{"!gradle"}, nil, pc)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGuardUnlessSuppresses(t *testing.T) {
	t.Parallel()
	pc := newProps(t)

	// All unless terms hold, so the step is suppressed.
	ok, err := Guard(nil, []string{"gradle"}, pc)
	require.NoError(t, err)
	assert.False(t, ok)

	// One unless term fails, so the step runs.
	ok, err = Guard(nil, []string{"gradle", "docker"}, pc)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGuardShortCircuitsBeforeUndeclaredTerm(t *testing.T) {
	t.Parallel()
	pc := newProps(t)

	// docker is false, so the undeclared second term is never evaluated.
	ok, err := Guard([]string{"docker", "undeclared"}, nil, pc)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGuardUndeclaredTermFailsHard(t *testing.T) {
	t.Parallel()
	pc := newProps(t)

	_, err := Guard([]string{"undeclared"}, nil, pc)
	var unresolved *props.UnresolvedPropertyError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "undeclared", unresolved.Name)
}

func TestGuardEmptyAlwaysHolds(t *testing.T) {
	t.Parallel()
	pc := newProps(t)

	ok, err := Guard(nil, nil, pc)
	require.NoError(t, err)
	assert.True(t, ok)
}
