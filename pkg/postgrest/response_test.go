package postgrest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgeflare/pgrst/pkg/transport"
)

func TestCountFromContentRange(t *testing.T) {
	tests := []struct {
		header string
		want   *int64
	}{
		{"", nil},
		{"0-1/2", int64p(2)},
		{"0-9/*", nil},
		{"*/0", int64p(0)},
		{"0-1/garbage", nil},
		{"garbage", nil},
	}
	for _, tt := range tests {
		got := countFromContentRange(tt.header)
		if tt.want == nil {
			assert.Nil(t, got, "header %q", tt.header)
		} else {
			require.NotNil(t, got, "header %q", tt.header)
			assert.Equal(t, *tt.want, *got, "header %q", tt.header)
		}
	}
}

func int64p(n int64) *int64 { return &n }

func TestBuildResponseRedirectIsError(t *testing.T) {
	_, apiErr := buildResponse(&transport.Response{StatusCode: 301, Body: []byte(`{"message":"moved"}`)})
	require.NotNil(t, apiErr)
	assert.Equal(t, "moved", *apiErr.Message)
}

func TestBuildResponseEmptyBody(t *testing.T) {
	res, apiErr := buildResponse(&transport.Response{StatusCode: 204})
	require.Nil(t, apiErr)
	assert.Nil(t, res.Data)
	assert.Nil(t, res.Count)
}
