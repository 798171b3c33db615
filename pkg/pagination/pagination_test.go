package pagination

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Sudhanshu9000/BazzarNet1.1/pkg/errors"
)

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, 0, p.Offset())
}

func TestFromQuery_Defaults(t *testing.T) {
	p, err := FromQuery(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, DefaultParams(), p)
}

func TestFromQuery_CustomValues(t *testing.T) {
	p, err := FromQuery(url.Values{"page": {"3"}, "limit": {"25"}})
	require.NoError(t, err)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 25, p.Limit)
	assert.Equal(t, 50, p.Offset())
}

func TestFromQuery_MaxLimitAccepted(t *testing.T) {
	p, err := FromQuery(url.Values{"limit": {"100"}})
	require.NoError(t, err)
	assert.Equal(t, 100, p.Limit)
}

func TestFromQuery_Rejects(t *testing.T) {
	tests := []struct {
		name string
		q    url.Values
	}{
		{"page zero", url.Values{"page": {"0"}}},
		{"page negative", url.Values{"page": {"-2"}}},
		{"page text", url.Values{"page": {"two"}}},
		{"limit zero", url.Values{"limit": {"0"}}},
		{"limit above max", url.Values{"limit": {"101"}}},
		{"limit fractional", url.Values{"limit": {"2.5"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromQuery(tt.q)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
		})
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		count, limit, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{25, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.count, tt.limit), "count=%d limit=%d", tt.count, tt.limit)
	}
}
