package list_test

import (
	"testing"

	"github.com/sagernet/netstream/common/x/list"

	"github.com/stretchr/testify/require"
)

func values[T any](l *list.List[T]) []T {
	var result []T
	for element := l.Front(); element != nil; element = element.Next() {
		result = append(result, element.Value)
	}
	return result
}

func TestList(t *testing.T) {
	t.Parallel()
	var l list.List[int]
	require.True(t, l.IsEmpty())
	require.Zero(t, l.PopFront())

	l.PushBack(1)
	middle := l.PushBack(2)
	l.PushBack(3)
	l.PushFront(0)
	require.Equal(t, 4, l.Len())
	require.Equal(t, []int{0, 1, 2, 3}, values(&l))

	require.Equal(t, 2, l.Remove(middle))
	require.Equal(t, 2, l.Remove(middle))
	require.Equal(t, []int{0, 1, 3}, values(&l))

	require.Equal(t, 0, l.PopFront())
	require.Equal(t, 1, l.PopFront())
	require.Equal(t, 3, l.PopFront())
	require.True(t, l.IsEmpty())
	require.Nil(t, l.Front())
	require.Nil(t, values(&l))
}

func TestListRemoveWhileIterating(t *testing.T) {
	t.Parallel()
	l := list.New[int]()
	for i := 1; i <= 6; i++ {
		l.PushBack(i)
	}
	for element := l.Front(); element != nil; {
		next := element.Next()
		if element.Value%2 == 0 {
			l.Remove(element)
		}
		element = next
	}
	require.Equal(t, []int{1, 3, 5}, values(l))
}
