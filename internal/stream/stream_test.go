package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribe_ReceivesCurrentValueImmediately(t *testing.T) {
	v := New(42)

	var got []int
	cancel := v.Subscribe(func(val int) { got = append(got, val) })
	defer cancel()

	require.Equal(t, []int{42}, got)
}

func TestSubscribe_ReceivesEverySubsequentChange(t *testing.T) {
	v := New("a")

	var got []string
	cancel := v.Subscribe(func(val string) { got = append(got, val) })
	defer cancel()

	v.Set("b")
	v.Set("c")

	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, "c", v.Get())
}

func TestSubscribe_CancelStopsDelivery(t *testing.T) {
	v := New(0)

	var got []int
	cancel := v.Subscribe(func(val int) { got = append(got, val) })

	v.Set(1)
	cancel()
	v.Set(2)

	assert.Equal(t, []int{0, 1}, got)
	// Cancelling twice is harmless.
	cancel()
}

func TestSubscribe_MultipleSubscribersAllNotified(t *testing.T) {
	v := New(0)

	var a, b []int
	cancelA := v.Subscribe(func(val int) { a = append(a, val) })
	defer cancelA()
	cancelB := v.Subscribe(func(val int) { b = append(b, val) })
	defer cancelB()

	v.Set(7)

	assert.Equal(t, []int{0, 7}, a)
	assert.Equal(t, []int{0, 7}, b)
}

func TestMap_DerivesAndTracksParent(t *testing.T) {
	v := New(2)
	doubled := Map(v, func(n int) int { return n * 2 })

	require.Equal(t, 4, doubled.Get())

	var got []int
	cancel := doubled.Subscribe(func(val int) { got = append(got, val) })
	defer cancel()

	v.Set(5)

	assert.Equal(t, []int{4, 10}, got)
	assert.Equal(t, 10, doubled.Get())
}
