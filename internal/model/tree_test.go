package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestContributeValueAtNestedPath(t *testing.T) {
	t.Parallel()
	tree := New()

	require.NoError(t, tree.ContributeValue("project/name", cty.StringVal("demo"), ValueOpts{}))
	tree.Finalize()

	assert.Equal(t, map[string]any{
		"project": map[string]any{"name": "demo"},
	}, tree.Export())
}

func TestContributeValueDuplicateWithoutReplace(t *testing.T) {
	t.Parallel()
	tree := New()
	require.NoError(t, tree.ContributeValue("title", cty.StringVal("first"), ValueOpts{}))

	err := tree.ContributeValue("title", cty.StringVal("second"), ValueOpts{})

	var conflict *ConflictingValueError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "title", conflict.Path)
}

func TestContributeValueReplaceWins(t *testing.T) {
	t.Parallel()
	tree := New()
	require.NoError(t, tree.ContributeValue("title", cty.StringVal("first"), ValueOpts{}))

	require.NoError(t, tree.ContributeValue("title", cty.StringVal("second"), ValueOpts{Replace: true}))
	tree.Finalize()

	assert.Equal(t, map[string]any{"title": "second"}, tree.Export())
}

func TestValueOverListIsTypeConflict(t *testing.T) {
	t.Parallel()
	tree := New()
	require.NoError(t, tree.ContributeList("deps", []cty.Value{cty.StringVal("a")}, DefaultOrder))

	err := tree.ContributeValue("deps", cty.StringVal("b"), ValueOpts{})

	var conflict *TypeConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, KindList, conflict.Existing)
	assert.Equal(t, KindValue, conflict.Contributed)
}

func TestRoutingThroughValueIsTypeConflict(t *testing.T) {
	t.Parallel()
	tree := New()
	require.NoError(t, tree.ContributeValue("name", cty.StringVal("demo"), ValueOpts{}))

	err := tree.ContributeValue("name/inner", cty.StringVal("x"), ValueOpts{})

	var conflict *TypeConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "name", conflict.Path)
}

func TestRoutingThroughKeyedMapIsTypeConflict(t *testing.T) {
	t.Parallel()
	tree := New()
	require.NoError(t, tree.ContributeMap("plugins", "java", map[string]cty.Value{
		"version": cty.StringVal("1"),
	}, MapOpts{Order: DefaultOrder}))

	err := tree.ContributeValue("plugins/extra", cty.StringVal("x"), ValueOpts{})

	var conflict *TypeConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "plugins", conflict.Path)
}

func TestListContributionsAppend(t *testing.T) {
	t.Parallel()
	tree := New()

	require.NoError(t, tree.ContributeList("deps", []cty.Value{cty.StringVal("a"), cty.StringVal("b")}, DefaultOrder))
	require.NoError(t, tree.ContributeList("deps", []cty.Value{cty.StringVal("c")}, DefaultOrder))
	tree.Finalize()

	assert.Equal(t, map[string]any{"deps": []any{"a", "b", "c"}}, tree.Export())
}

func TestPlainMapFieldUnion(t *testing.T) {
	t.Parallel()
	tree := New()

	require.NoError(t, tree.ContributeMap("meta", "", map[string]cty.Value{
		"author": cty.StringVal("vk"),
	}, MapOpts{Order: DefaultOrder}))
	require.NoError(t, tree.ContributeMap("meta", "", map[string]cty.Value{
		"license": cty.StringVal("MIT"),
	}, MapOpts{Order: DefaultOrder}))
	tree.Finalize()

	assert.Equal(t, map[string]any{
		"meta": map[string]any{"author": "vk", "license": "MIT"},
	}, tree.Export())
}

func TestPlainMapDuplicateField(t *testing.T) {
	t.Parallel()
	tree := New()
	require.NoError(t, tree.ContributeMap("meta", "", map[string]cty.Value{
		"author": cty.StringVal("vk"),
	}, MapOpts{Order: DefaultOrder}))

	err := tree.ContributeMap("meta", "", map[string]cty.Value{
		"author": cty.StringVal("someone"),
	}, MapOpts{Order: DefaultOrder})

	var conflict *ConflictingValueError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "meta/author", conflict.Path)
}

func TestKeyedEntriesMergeByKey(t *testing.T) {
	t.Parallel()
	tree := New()

	require.NoError(t, tree.ContributeMap("plugins", "java", map[string]cty.Value{
		"version": cty.StringVal("17"),
	}, MapOpts{Order: DefaultOrder}))
	require.NoError(t, tree.ContributeMap("plugins", "java", map[string]cty.Value{
		"vendor": cty.StringVal("temurin"),
	}, MapOpts{Order: DefaultOrder}))
	require.NoError(t, tree.ContributeMap("plugins", "kotlin", map[string]cty.Value{
		"version": cty.StringVal("2.0"),
	}, MapOpts{Order: DefaultOrder}))
	tree.Finalize()

	assert.Equal(t, map[string]any{
		"plugins": []any{
			map[string]any{"_key": "java", "version": "17", "vendor": "temurin"},
			map[string]any{"_key": "kotlin", "version": "2.0"},
		},
	}, tree.Export())
}

func TestKeyedEntryDuplicateFieldWithoutReplace(t *testing.T) {
	t.Parallel()
	tree := New()
	require.NoError(t, tree.ContributeMap("plugins", "java", map[string]cty.Value{
		"version": cty.StringVal("17"),
	}, MapOpts{Order: DefaultOrder}))

	err := tree.ContributeMap("plugins", "java", map[string]cty.Value{
		"version": cty.StringVal("21"),
	}, MapOpts{Order: DefaultOrder})

	var conflict *ConflictingValueError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "plugins[java]/version", conflict.Path)
}

func TestKeyedEntryReplaceIsIdempotent(t *testing.T) {
	t.Parallel()
	tree := New()

	contribute := func() error {
		return tree.ContributeMap("plugins", "java", map[string]cty.Value{
			"version": cty.StringVal("21"),
		}, MapOpts{Order: DefaultOrder, Replace: true})
	}
	require.NoError(t, contribute())
	require.NoError(t, contribute())
	tree.Finalize()

	assert.Equal(t, map[string]any{
		"plugins": []any{
			map[string]any{"_key": "java", "version": "21"},
		},
	}, tree.Export())
}

func TestKeyedAndUnkeyedContributionsConflict(t *testing.T) {
	t.Parallel()
	tree := New()
	require.NoError(t, tree.ContributeMap("plugins", "java", map[string]cty.Value{
		"version": cty.StringVal("17"),
	}, MapOpts{Order: DefaultOrder}))

	err := tree.ContributeMap("plugins", "", map[string]cty.Value{
		"version": cty.StringVal("17"),
	}, MapOpts{Order: DefaultOrder})

	var conflict *TypeConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestEmptyPathSegmentRejected(t *testing.T) {
	t.Parallel()
	tree := New()

	err := tree.ContributeValue("a//b", cty.StringVal("x"), ValueOpts{})
	require.Error(t, err)
}

func TestContributionAfterFinalizePanics(t *testing.T) {
	t.Parallel()
	tree := New()
	tree.Finalize()

	assert.Panics(t, func() {
		_ = tree.ContributeValue("late", cty.StringVal("x"), ValueOpts{})
	})
}
