package tgeneric

func MassConvert[T any, O any](item []T, convFunc func(T) *O) []O {
	arr := make([]O, len(item))
	for i, v := range item {
		arr[i] = *convFunc(v)
	}
	return arr
}

// MassConvertPtr is MassConvert for sources held by pointer.
func MassConvertPtr[T any, O any](item []*T, convFunc func(T) *O) []O {
	arr := make([]O, len(item))
	for i, v := range item {
		arr[i] = *convFunc(*v)
	}
	return arr
}
