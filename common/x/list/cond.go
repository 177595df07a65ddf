package list

func (l *List[T]) IsEmpty() bool {
	return l.len == 0
}

// PopFront removes and returns the first value, or the zero value when l is empty.
func (l *List[T]) PopFront() T {
	var value T
	if element := l.Front(); element != nil {
		value = l.Remove(element)
	}
	return value
}
