package check

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Validatable is implemented by anything that has fields that should be validated.
type Validatable interface {
	Validate() []error
}

// Validate walks the provided value, running the Validate method of every
// Validatable found along the way and descending into pointers, slices, maps,
// and exported struct fields. The failures of all visited values are combined
// into a single returned error.
func Validate(v interface{}) error {
	errs := walk(reflect.ValueOf(v), "root")
	if len(errs) == 0 {
		return nil
	}
	return validationError(errs)
}

type validationError []error

func (v validationError) Error() string {
	msgs := make([]string, 0, len(v))
	for _, err := range v {
		msgs = append(msgs, err.Error())
	}
	sort.Strings(msgs)
	return fmt.Sprintf("Check Failed! %d errors found:\n\t%s",
		len(msgs), strings.Join(msgs, "\n\t"))
}

func walk(v reflect.Value, path string) []error {
	var errs []error

	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return nil
		}
		// Defer to the element; running Validate on both the pointer and its
		// target would report every failure twice.
		return walk(v.Elem(), path)
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			errs = append(errs, walk(v.Index(i), fmt.Sprintf("%s[%d]", path, i))...)
		}
	case reflect.Map:
		for _, key := range v.MapKeys() {
			errs = append(errs, walk(v.MapIndex(key), fmt.Sprintf("%s[%v]", path, key))...)
		}
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			if t.Field(i).PkgPath != "" { // unexported
				continue
			}
			errs = append(errs, walk(v.Field(i), path+"."+t.Field(i).Name)...)
		}
	}

	for _, err := range validateValue(v) {
		if err != nil {
			errs = append(errs, errors.Wrapf(err, "error found at %s", path))
		}
	}
	return errs
}

// validateValue runs the Validate method of v if it has one. The value is
// copied to addressable memory first so methods declared on pointer receivers
// are found too.
func validateValue(v reflect.Value) []error {
	vp := reflect.New(v.Type())
	vp.Elem().Set(v)
	if validatable, ok := vp.Interface().(Validatable); ok {
		return validatable.Validate()
	}
	return nil
}
