package queue

import (
	"reflect"

	"github.com/BrandonKowalski/curtain/pkg/curtain"
)

type bindingKind int

const (
	bindingNone    bindingKind = iota // Instance reports no result
	bindingTyped                      // curtain.ResultHandler[R]
	bindingGeneric                    // curtain.AnyResultHandler
	bindingSlot                       // curtain.ResultReporter[R]
)

// binding is the result capability chosen for an instance when it opens.
// Exactly one of the capability fields is set, according to kind.
type binding[R any] struct {
	kind    bindingKind
	typed   curtain.ResultHandler[R]
	generic curtain.AnyResultHandler
	slot    *curtain.ResultSlot[R]
}

func resolveBinding[R any](inst curtain.Instance) binding[R] {
	if h, ok := inst.(curtain.ResultHandler[R]); ok {
		return binding[R]{kind: bindingTyped, typed: h}
	}
	if h, ok := inst.(curtain.AnyResultHandler); ok {
		return binding[R]{kind: bindingGeneric, generic: h}
	}
	if r, ok := inst.(curtain.ResultReporter[R]); ok {
		if slot := r.ResultSlot(); slot != nil {
			return binding[R]{kind: bindingSlot, slot: slot}
		}
	}
	return binding[R]{}
}

func (b binding[R]) result(path string) (R, error) {
	var zero R

	switch b.kind {
	case bindingTyped:
		return b.typed.Result()
	case bindingGeneric:
		v, err := b.generic.ResultAny()
		if err != nil {
			return zero, err
		}
		if v == nil {
			return zero, nil
		}
		out, ok := v.(R)
		if !ok {
			return zero, &curtain.ResultTypeError{Path: path, Want: typeName[R](), Got: v}
		}
		return out, nil
	case bindingSlot:
		return b.slot.Result()
	default:
		return zero, &curtain.HandlerNotFoundError{Path: path, Want: typeName[R]()}
	}
}

func typeName[R any]() string {
	return reflect.TypeFor[R]().String()
}
