package cdfwriter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConventionKey(t *testing.T) {
	t.Parallel()

	ts := time.Date(2023, 2, 3, 4, 5, 6, 0, time.UTC)

	tests := []struct {
		tmpl string
		want string
	}{
		{"%Y%m%d", "20230203"},
		{"%Y%m%d%H%M%S", "20230203040506"},
		{"%Y%m%d%H%M00", "20230203040500"},
		{"%y%j", "23034"},
		{"%Y-%m-%d", "2023-02-03"},
		{"%%Y", "%Y"},
	}
	for _, tc := range tests {
		c, err := ParseConvention(tc.tmpl)
		require.NoError(t, err, tc.tmpl)
		assert.Equal(t, tc.want, c.Key(ts), tc.tmpl)
	}
}

func TestConventionKeyUsesUTC(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+9", 9*3600)
	ts := time.Date(2023, 2, 4, 1, 0, 0, 0, loc) // 2023-02-03 16:00 UTC

	c, err := ParseConvention("%Y%m%d")
	require.NoError(t, err)
	assert.Equal(t, "20230203", c.Key(ts))
}

func TestParseConventionRejectsBadTemplates(t *testing.T) {
	t.Parallel()

	for _, tmpl := range []string{"", "%Q", "%Y%"} {
		_, err := ParseConvention(tmpl)
		assert.Error(t, err, tmpl)
	}
}

func TestFileName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "TEST_20230101_v1.0.0.cdf", fileName("TEST", "20230101", "1.0.0"))
	assert.Equal(t, "TEST_v1.0.0.cdf", fileName("TEST", "", "1.0.0"))
}

func TestValidVersion(t *testing.T) {
	t.Parallel()

	for _, v := range []string{"0.0.0", "4.2.0", "10.20.30"} {
		assert.True(t, validVersion(v), v)
	}
	for _, v := range []string{"", "1", "1.0", "1.0.0.0", "1.0.x", "1..0", "v1.0.0"} {
		assert.False(t, validVersion(v), v)
	}
}
