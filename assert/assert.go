package assert

import "github.com/oomph-ac/locomotion/oerror"

// IsTrue panics with an *oerror.Error built from message and args if ok is false.
func IsTrue(ok bool, message string, args ...any) {
	if !ok {
		panic(oerror.New(message, args...))
	}
}

// NotNil panics if v is nil. The name is used in the panic message.
func NotNil[T any](v *T, name string) {
	if v == nil {
		panic(oerror.New("%s must not be nil", name))
	}
}
