package check

import (
	"fmt"
	"reflect"
)

// format renders a check argument for an error message, dereferencing
// pointers so the message shows the value rather than an address.
func format(i interface{}) string {
	v := reflect.ValueOf(i)
	for v.Kind() == reflect.Ptr && !v.IsNil() {
		v = reflect.Indirect(v)
	}
	if v.IsValid() && v.Type() != reflect.TypeOf(i) {
		return fmt.Sprintf("%T(%+v)", i, v.Interface())
	}
	return fmt.Sprintf("%+v", i)
}

// messageFromMsgAndArgs renders the caller-provided context message: a lone
// string is used verbatim, a string followed by arguments is treated as a
// format string, and anything else is rendered with %+v.
func messageFromMsgAndArgs(msgAndArgs ...interface{}) string {
	switch {
	case len(msgAndArgs) == 1:
		if msg, ok := msgAndArgs[0].(string); ok {
			return msg
		}
		return fmt.Sprintf("%+v", msgAndArgs[0])
	case len(msgAndArgs) > 1:
		return fmt.Sprintf(msgAndArgs[0].(string), msgAndArgs[1:]...)
	default:
		return ""
	}
}
