package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterSpec_WithHelpersResetPage(t *testing.T) {
	t.Parallel()

	base := FilterSpec{Page: 4, PageSize: 20}

	for _, facet := range Facets {
		got := base.WithFacet(facet, "x")
		assert.Equal(t, 1, got.Page, "facet %s", facet)
		assert.Equal(t, "x", got.Value(facet))
	}

	assert.Equal(t, 1, base.WithSearchText("go").Page)
	assert.Equal(t, 1, base.WithPageSize(50).Page)
	assert.Equal(t, 7, base.WithPage(7).Page)

	// the receiver is never mutated
	assert.Equal(t, 4, base.Page)
}

func TestFilterSpec_Normalize(t *testing.T) {
	t.Parallel()

	got := FilterSpec{
		SearchText:   "  react ",
		Type:         "ALL",
		Experience:   "Senior",
		SalaryBucket: "100K-150K",
		PageSize:     1000,
	}.Normalize()

	assert.Equal(t, "react", got.SearchText)
	assert.Empty(t, got.Type)
	assert.Equal(t, "senior", got.Experience)
	assert.Equal(t, "100k-150k", got.SalaryBucket)
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, MaxPageSize, got.PageSize)

	assert.Equal(t, DefaultPageSize, FilterSpec{}.Normalize().PageSize)
}

func TestFilterSpec_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, FilterSpec{SalaryBucket: "50k-75k", VacancyBucket: "2-5", RemoteMode: "onsite"}.Validate())
	require.NoError(t, FilterSpec{SalaryBucket: "all"}.Validate())

	err := FilterSpec{SalaryBucket: "lots", VacancyBucket: "many", RemoteMode: "moon"}.Validate()
	require.Error(t, err)
	require.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 3)
}

func TestFilterSpec_SameQuery(t *testing.T) {
	t.Parallel()

	a := FilterSpec{Type: "contract", Page: 3}
	assert.True(t, a.SameQuery(FilterSpec{Type: "Contract", Page: 1}))
	assert.False(t, a.SameQuery(FilterSpec{Type: "internship"}))
}

func TestRange_Contains(t *testing.T) {
	t.Parallel()

	r := SalaryBuckets["50k-75k"]
	assert.True(t, r.Contains(50000))
	assert.True(t, r.Contains(75000))
	assert.False(t, r.Contains(75001))

	open := SalaryBuckets["150k+"]
	assert.True(t, open.Contains(1_000_000))
	assert.False(t, open.Contains(149_999))
}

func TestNewPagination(t *testing.T) {
	t.Parallel()

	p := NewPagination(2, 10, 21)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 10, p.Offset())
	assert.Equal(t, 0, NewPagination(1, 10, 0).TotalPages)
}
