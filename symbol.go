// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package decan

import (
	"reflect"
	"unsafe"

	"github.com/DataDog/go-decan/decanerrors"
	"github.com/DataDog/go-decan/raw"
)

// Symbol is implemented by the pointers to the types a library export can be
// resolved into: [Ptr], [NonNull], [Func] and [OptionalFunc]. The set is closed
// so each type can enforce its own null policy.
//
// Resolution only ever looks at the exported address. Whether the declared type
// matches what the library placed there cannot be checked and is the caller's
// responsibility.
type Symbol interface {
	// resolve stores the address of the export named name.
	resolve(name string, addr uintptr) error
	// address returns the resolved address.
	address() uintptr
}

type symbolPtr[S any] interface {
	*S
	Symbol
}

// lookupSymbol is replaced in tests.
var lookupSymbol = raw.Symbol

// LoadSymbol resolves the export name from handle into a value of type S.
//
// The caller must keep the library behind handle open for as long as the
// returned value is used; [BorrowSymbol] and [Can] do that for you.
//
// Errors are of type [*decanerrors.SymbolError].
func LoadSymbol[S any, PS symbolPtr[S]](handle raw.Handle, name string) (S, error) {
	var sym S
	if err := loadSymbolInto(handle, name, PS(&sym)); err != nil {
		var zero S
		return zero, err
	}
	return sym, nil
}

func loadSymbolInto(handle raw.Handle, name string, dst Symbol) error {
	addr, err := lookupSymbol(handle, name)
	if err != nil {
		return err
	}
	return dst.resolve(name, addr)
}

// Ptr is a nullable pointer to an exported value of type T.
type Ptr[T any] struct {
	addr uintptr
}

// Get returns the pointer, which is nil if the export's value is the null
// address.
func (p Ptr[T]) Get() *T {
	return cast[T](p.addr)
}

// IsNil reports whether the export's value is the null address.
func (p Ptr[T]) IsNil() bool {
	return p.addr == 0
}

// Addr returns the resolved address.
func (p Ptr[T]) Addr() uintptr {
	return p.addr
}

func (p *Ptr[T]) resolve(_ string, addr uintptr) error {
	p.addr = addr
	return nil
}

func (p *Ptr[T]) address() uintptr { return p.addr }

// NonNull is a pointer to an exported value of type T. Resolution fails when
// the export's value is the null address.
type NonNull[T any] struct {
	addr uintptr
}

// Get returns the pointer. It is never nil once resolved.
func (p NonNull[T]) Get() *T {
	return cast[T](p.addr)
}

// Addr returns the resolved address.
func (p NonNull[T]) Addr() uintptr {
	return p.addr
}

func (p *NonNull[T]) resolve(name string, addr uintptr) error {
	if addr == 0 {
		return nullValue[NonNull[T]](name)
	}
	p.addr = addr
	return nil
}

func (p *NonNull[T]) address() uintptr { return p.addr }

// Func is an exported function bound to the Go function type F, which acts as
// the signature of the foreign function. F must be a func type purego can
// marshal; calls use the platform's C calling convention. Resolution fails
// when the export's value is the null address.
//
// purego caps the number of arguments (15 integer-class arguments on most
// targets). Functions taking more can be resolved as a [NonNull] and called
// through their [NonNull.Addr] with purego.SyscallN.
type Func[F any] struct {
	fn   F
	addr uintptr
}

// Fn returns the callable function.
func (f Func[F]) Fn() F {
	return f.fn
}

// Addr returns the address of the function.
func (f Func[F]) Addr() uintptr {
	return f.addr
}

func (f *Func[F]) resolve(name string, addr uintptr) error {
	if addr == 0 {
		return nullValue[Func[F]](name)
	}
	if err := bindFunc(&f.fn, name, addr); err != nil {
		return err
	}
	f.addr = addr
	return nil
}

func (f *Func[F]) address() uintptr { return f.addr }

// OptionalFunc is like [Func] but resolves to an absent function instead of
// failing when the export's value is the null address.
type OptionalFunc[F any] struct {
	fn   F
	addr uintptr
	ok   bool
}

// Get returns the function and whether it is present.
func (f OptionalFunc[F]) Get() (F, bool) {
	return f.fn, f.ok
}

// Addr returns the address of the function, 0 when absent.
func (f OptionalFunc[F]) Addr() uintptr {
	return f.addr
}

func (f *OptionalFunc[F]) resolve(name string, addr uintptr) error {
	if addr == 0 {
		*f = OptionalFunc[F]{}
		return nil
	}
	if err := bindFunc(&f.fn, name, addr); err != nil {
		return err
	}
	f.addr = addr
	f.ok = true
	return nil
}

func (f *OptionalFunc[F]) address() uintptr { return f.addr }

func nullValue[T any](name string) error {
	return &decanerrors.SymbolError{
		Kind:   decanerrors.SymbolErrorNullValue,
		Symbol: name,
		Type:   typeName[T](),
	}
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}

// cast is used to convert an address coming from the C world into a Go pointer.
func cast[T any](addr uintptr) *T {
	// We take the address and then dereference it to trick go vet from creating a possible misuse of unsafe.Pointer
	return *(**T)(unsafe.Pointer(&addr))
}
