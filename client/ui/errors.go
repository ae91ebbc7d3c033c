package ui

// ActionableError is an input error the player can fix, shown as is.
type ActionableError struct {
	Message string
}

func (e *ActionableError) Error() string {
	return e.Message
}

func IsActionableError(err error) bool {
	_, ok := err.(*ActionableError)
	return ok
}
