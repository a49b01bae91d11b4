package check

import (
	"testing"

	"gotest.tools/assert"
)

type ptrReceiver struct {
	A bool
}

func (t *ptrReceiver) Validate() []error {
	return []error{
		True(t.A, "field A must be true"),
	}
}

type valueReceiver struct {
	A bool
}

func (t valueReceiver) Validate() []error {
	return []error{
		True(t.A, "field A must be true"),
	}
}

func TestMethodSets(t *testing.T) {
	case1 := ptrReceiver{
		A: false,
	}
	case2 := valueReceiver{
		A: false,
	}
	err := Validate(case1)
	assert.ErrorContains(t, err, "error found at root: field A must be true: expected true, got false")
	err = Validate(&case1)
	assert.ErrorContains(t, err, "error found at root: field A must be true: expected true, got false")
	err = Validate(case2)
	assert.ErrorContains(t, err, "error found at root: field A must be true: expected true, got false")
	err = Validate(&case2)
	assert.ErrorContains(t, err, "error found at root: field A must be true: expected true, got false")
}

type nested struct {
	Children []*ptrReceiver
	ByName   map[string]valueReceiver
}

func TestNestedPaths(t *testing.T) {
	value := nested{
		Children: []*ptrReceiver{{A: true}, {A: false}},
		ByName:   map[string]valueReceiver{"worker": {A: false}},
	}
	err := Validate(value)
	assert.ErrorContains(t, err, "error found at root.Children[1]: field A must be true")
	assert.ErrorContains(t, err, "error found at root.ByName[worker]: field A must be true")

	value.Children[1].A = true
	value.ByName["worker"] = valueReceiver{A: true}
	assert.NilError(t, Validate(value))
}

func TestNilPointerSkipped(t *testing.T) {
	var missing *ptrReceiver
	assert.NilError(t, Validate(missing))
}

func TestHelpers(t *testing.T) {
	assert.NilError(t, True(true))
	assert.NilError(t, False(false))
	assert.NilError(t, NotEmpty("worker"))
	assert.NilError(t, In("b", []string{"a", "b"}))

	assert.ErrorContains(t, False(true, "flag %s must be off", "debug"),
		"flag debug must be off: expected false, got true")
	assert.ErrorContains(t, NotEmpty("", "image must be set"),
		"image must be set: expected non-empty string")
	assert.ErrorContains(t, In("c", []string{"a", "b"}), "c not in [a b]")
}
