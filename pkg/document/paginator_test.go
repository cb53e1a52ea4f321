package document

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sangkips/quotify-api/pkg/money"
)

func makeLines(n int) []Line {
	lines := make([]Line, n)
	for i := range lines {
		lines[i] = Line{
			Serial: i + 1,
			Item:   money.LineItem{Description: fmt.Sprintf("Item %d", i+1), Quantity: 1, RatePerUnit: 100},
		}
	}
	return lines
}

func TestPaginateEmpty(t *testing.T) {
	pages, err := Paginate(nil, 10)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, 1, pages[0].Index)
	assert.Equal(t, 1, pages[0].StartSerial)
	assert.Empty(t, pages[0].Lines)
	assert.True(t, pages[0].Final, "an empty document still needs a final page for the totals block")
}

func TestPaginateExactCapacity(t *testing.T) {
	pages, err := Paginate(makeLines(10), 10)
	require.NoError(t, err)
	require.Len(t, pages, 1, "no trailing empty page when the count divides evenly")
	assert.True(t, pages[0].Final)
	assert.Len(t, pages[0].Lines, 10)
}

func TestPaginateCapacityPlusOne(t *testing.T) {
	pages, err := Paginate(makeLines(11), 10)
	require.NoError(t, err)
	require.Len(t, pages, 2)

	assert.False(t, pages[0].Final)
	assert.True(t, pages[1].Final)

	assert.Equal(t, 1, pages[0].StartSerial)
	assert.Equal(t, 10, pages[0].Lines[len(pages[0].Lines)-1].Serial)
	assert.Equal(t, 11, pages[1].StartSerial)
	assert.Equal(t, 11, pages[1].Lines[0].Serial)
}

func TestPaginateSerialContinuity(t *testing.T) {
	for _, count := range []int{1, 7, 10, 15, 20, 21, 33} {
		pages, err := Paginate(makeLines(count), 10)
		require.NoError(t, err)

		next := 1
		for _, page := range pages {
			assert.Equal(t, next, page.StartSerial)
			for _, line := range page.Lines {
				assert.Equal(t, next, line.Serial, "count=%d", count)
				next++
			}
		}
		assert.Equal(t, count+1, next)

		// Exactly one final page, and it is the last one.
		for i, page := range pages {
			assert.Equal(t, i == len(pages)-1, page.Final)
		}
	}
}

func TestPaginateInvalidCapacity(t *testing.T) {
	_, err := Paginate(makeLines(3), 0)
	require.Error(t, err)
	_, err = Paginate(makeLines(3), -1)
	require.Error(t, err)
}
