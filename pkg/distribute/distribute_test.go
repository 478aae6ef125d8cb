package distribute

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makePairs(n int) ([]string, []string) {
	srcs := make([]string, n)
	dsts := make([]string, n)
	for i := range n {
		srcs[i] = fmt.Sprintf("s%d", i)
		dsts[i] = fmt.Sprintf("d%d", i)
	}
	return srcs, dsts
}

func TestDistribute_TenOverThree(t *testing.T) {
	srcs, dsts := makePairs(10)

	plan, err := Distribute(srcs, dsts, 3, 871)
	require.NoError(t, err)

	assert.Equal(t, 3, plan.Len())
	assert.Equal(t, []int{4, 3, 3}, plan.Sizes())
	assert.Equal(t, 10, plan.Total())

	var all []string
	for _, shard := range plan.Sources {
		all = append(all, shard...)
	}
	sort.Strings(all)
	expected := append([]string(nil), srcs...)
	sort.Strings(expected)
	assert.Equal(t, expected, all, "no file duplicated or dropped")
}

func TestDistribute_KeepsPairsTogether(t *testing.T) {
	srcs, dsts := makePairs(17)

	plan, err := Distribute(srcs, dsts, 4, 5)
	require.NoError(t, err)

	for i := range plan.Sources {
		for j, s := range plan.Sources[i] {
			assert.Equal(t, "d"+s[1:], plan.Destinations[i][j])
		}
	}
}

func TestDistribute_ShardsAreContiguousRanges(t *testing.T) {
	srcs, dsts := makePairs(10)

	plan, err := Distribute(srcs, dsts, 3, 1)
	require.NoError(t, err)

	first := append([]string(nil), plan.Sources[0]...)
	sort.Strings(first)
	assert.Equal(t, []string{"s0", "s1", "s2", "s3"}, first)
}

func TestDistribute_Deterministic(t *testing.T) {
	srcs, dsts := makePairs(30)

	a, err := Distribute(srcs, dsts, 4, 99)
	require.NoError(t, err)
	b, err := Distribute(srcs, dsts, 4, 99)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestDistribute_MoreWorkersThanFiles(t *testing.T) {
	srcs, dsts := makePairs(2)

	plan, err := Distribute(srcs, dsts, 5, 1)
	require.NoError(t, err)

	assert.Equal(t, 2, plan.Len(), "empty shards are omitted")
	assert.Equal(t, []int{1, 1}, plan.Sizes())
}

func TestDistribute_Empty(t *testing.T) {
	plan, err := Distribute(nil, nil, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, plan.Len())
}

func TestDistribute_Errors(t *testing.T) {
	_, err := Distribute([]string{"a"}, nil, 1, 1)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = Distribute([]string{"a"}, []string{"b"}, 0, 1)
	assert.ErrorIs(t, err, ErrInvalidWorkers)
}

func TestRanges(t *testing.T) {
	assert.Equal(t, [][2]int{{0, 4}, {4, 7}, {7, 10}}, Ranges(10, 3))
	assert.Equal(t, [][2]int{{0, 1}, {1, 1}}, Ranges(1, 2))
	assert.Nil(t, Ranges(3, 0))
}
