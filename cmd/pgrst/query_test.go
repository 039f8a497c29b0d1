package main

import (
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgeflare/pgrst/internal/testutil"
	"github.com/edgeflare/pgrst/pkg/postgrest"
)

func filterFlags(t *testing.T, values ...string) *cobra.Command {
	c := &cobra.Command{}
	c.Flags().StringArrayP("filter", "f", nil, "")
	for _, v := range values {
		require.NoError(t, c.Flags().Set("filter", v))
	}
	return c
}

func TestApplyFilters(t *testing.T) {
	srv := testutil.NewServer()
	defer srv.Close()

	chain := postgrest.NewClient(srv.URL, nil).From("things").Select("id")
	cmd := filterFlags(t, "status=eq.active", "age=gte.21", "age=lt.65")
	require.NoError(t, applyFilters(chain, cmd.Flags()))

	_, err := chain.Execute(context.Background())
	require.NoError(t, err)

	q := srv.Last().Query
	assert.Equal(t, []string{"eq.active"}, q["status"])
	assert.Equal(t, []string{"gte.21", "lt.65"}, q["age"])
}

func TestApplyFiltersRejectsMalformed(t *testing.T) {
	chain := postgrest.NewClient("http://localhost:3000", nil).From("things").Select()

	cmd := filterFlags(t, "missing-equals")
	assert.Error(t, applyFilters(chain, cmd.Flags()))

	cmd = filterFlags(t, "col=no-operator-dot")
	assert.Error(t, applyFilters(chain, cmd.Flags()))
}

func TestSplitColumns(t *testing.T) {
	assert.Nil(t, splitColumns(""))
	assert.Equal(t, []string{"id", "name"}, splitColumns("id,name"))
}
