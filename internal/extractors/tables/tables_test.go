package tables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCell(t *testing.T) {
	c := Cell("  Revenue ")
	require.NotNil(t, c)
	assert.Equal(t, "Revenue", *c)

	empty := Cell("")
	require.NotNil(t, empty)
	assert.Equal(t, "", *empty)
}

func TestRectangular(t *testing.T) {
	rows := Rectangular([][]*string{
		Row("Metric", "Q2", "Q3"),
		Row("Revenue"),
		Row("NRR", "127"),
	})

	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Len(t, row, 3)
	}
	assert.Nil(t, rows[1][1])
	assert.Nil(t, rows[1][2])
	assert.Equal(t, "127", *rows[2][1])
	assert.Nil(t, rows[2][2])
}

func TestCollector_Limit(t *testing.T) {
	c := NewCollector(2)

	c.Add(1, [][]*string{Row("a")})
	c.Add(1, nil)
	c.Add(2, [][]*string{Row("b")})
	c.Add(3, [][]*string{Row("c")})

	tables := c.Tables()
	require.Len(t, tables, 2)
	assert.Equal(t, 1, tables[0].PageNumber)
	assert.Equal(t, 2, tables[1].PageNumber)
	assert.Equal(t, 1, c.Dropped())
}

func TestCollector_Unbounded(t *testing.T) {
	c := NewCollector(0)
	for i := 0; i < 10; i++ {
		c.Add(1, [][]*string{Row("x")})
	}
	assert.Len(t, c.Tables(), 10)
	assert.Equal(t, 0, c.Dropped())
}
