package statefor

// buildDefault constructs a state instance for host. Factories implementing
// Initializer compute the argument bag from the host; the rest get an empty one.
// Errors from the factory are returned as-is.
func buildDefault(f Factory, host any) (any, error) {
	args := Args{}
	if init, ok := f.(Initializer); ok {
		a, err := init.InitialState(host)
		if err != nil {
			return nil, err
		}
		if a != nil {
			args = a
		}
	}
	return f.Create(args)
}
