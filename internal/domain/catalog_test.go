package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyStock(t *testing.T) {
	cases := []struct {
		stock int
		want  string
	}{
		{0, StockOut},
		{1, StockAlmost},
		{2, StockAlmost},
		{3, StockHealthy},
		{100, StockHealthy},
	}
	for _, c := range cases {
		require.Equal(t, c.want, ClassifyStock(c.stock), "stock=%d", c.stock)
	}
}
