package common

import "github.com/sirupsen/logrus"

// Map returns nil for an empty input.
func Map[T any, N any](arr []T, block func(it T) N) []N {
	var retArr []N
	for index := range arr {
		retArr = append(retArr, block(arr[index]))
	}
	return retArr
}

func Must(err error) {
	if err != nil {
		logrus.Fatal(err)
	}
}

func Must1[T any](result T, err error) T {
	if err != nil {
		logrus.Fatal(err)
	}
	return result
}
