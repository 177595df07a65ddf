package control

// Func configures a raw socket descriptor.
type Func = func(fd int) error

func Append(oldFunc Func, newFunc Func) Func {
	if oldFunc == nil {
		return newFunc
	} else if newFunc == nil {
		return oldFunc
	}
	return func(fd int) error {
		if err := oldFunc(fd); err != nil {
			return err
		}
		return newFunc(fd)
	}
}

func Apply(fd int, funcs ...Func) error {
	for _, f := range funcs {
		if f == nil {
			continue
		}
		if err := f(fd); err != nil {
			return err
		}
	}
	return nil
}
