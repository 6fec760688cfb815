// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package decan

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/DataDog/go-decan/decanerrors"
	"github.com/DataDog/go-decan/raw"
)

// GroupLoader is implemented by symbol groups which resolve their own members
// instead of relying on struct tags. Implementations must resolve members in
// declaration order, stop at the first failure, and use [LoadMember] for
// symbols and [LoadSubgroup] for nested groups so errors name the failing
// member.
type GroupLoader interface {
	LoadGroup(handle raw.Handle) error
}

// LoadGroup resolves the symbol group G from handle.
//
// G is either a [GroupLoader] or a struct whose exported fields are symbols
// ([Ptr], [NonNull], [Func], [OptionalFunc]) or nested groups (structs,
// [Optional] or other [GroupLoader]s). Unexported fields are ignored. A symbol
// field is resolved from the export named by its `dlsym` tag, or from the
// field's own name when the tag is absent; `dlsym:"-"` skips the field.
//
//	type Testlib struct {
//		PrintMessage decan.Func[func()]              `dlsym:"print_message"`
//		SquareInt    decan.Func[func(int32) int32]   `dlsym:"square_int"`
//		Extra        decan.Optional[ExtraSymbols]
//	}
//
// Fields are resolved in declaration order and the first failure aborts the
// whole load: either the complete group is returned, or the zero G and an
// error. Resolution failures are [*decanerrors.SymbolGroupError] naming the
// failing field; a G which is not a valid group yields a
// [*decanerrors.InvalidGroupError].
func LoadGroup[G any](handle raw.Handle) (G, error) {
	var group G
	if err := loadGroupInto(handle, &group); err != nil {
		var zero G
		return zero, err
	}
	return group, nil
}

// LoadMember resolves the export name into dst on behalf of a [GroupLoader].
// On failure the error names field as the failing member.
func LoadMember(handle raw.Handle, field, name string, dst Symbol) error {
	if err := loadSymbolInto(handle, name, dst); err != nil {
		return inGroup(field, name, err)
	}
	return nil
}

// LoadSubgroup resolves the nested group dst on behalf of a [GroupLoader]. Its
// error already names the failing member and is returned unchanged.
func LoadSubgroup[G any](handle raw.Handle, dst *G) error {
	var group G
	if err := loadGroupInto(handle, &group); err != nil {
		return err
	}
	*dst = group
	return nil
}

func inGroup(field, name string, err error) error {
	var symErr *decanerrors.SymbolError
	if !errors.As(err, &symErr) {
		symErr = &decanerrors.SymbolError{Kind: decanerrors.SymbolErrorOS, Symbol: name, Err: err}
	}
	return symErr.InGroup(field)
}

func loadGroupInto(handle raw.Handle, dst any) error {
	if loader, ok := dst.(GroupLoader); ok {
		return loader.LoadGroup(handle)
	}

	v := reflect.ValueOf(dst).Elem()
	p, err := planFor(v.Type())
	if err != nil {
		return err
	}
	return p.load(handle, v)
}

type memberKind int

const (
	symbolMember memberKind = iota
	loaderMember
	structMember
)

type member struct {
	kind  memberKind
	index int
	field string
	// symbol is the export name of symbol members.
	symbol string
	// nested is the plan of struct members.
	nested *plan
}

// plan is the ordered list of members of a group type, computed once per type.
type plan struct {
	typ     reflect.Type
	members []member
}

var (
	plans sync.Map // reflect.Type -> *plan

	symbolType      = reflect.TypeFor[Symbol]()
	groupLoaderType = reflect.TypeFor[GroupLoader]()
)

func planFor(typ reflect.Type) (*plan, error) {
	if cached, ok := plans.Load(typ); ok {
		return cached.(*plan), nil
	}

	p, err := buildPlan(typ)
	if err != nil {
		return nil, err
	}
	cached, _ := plans.LoadOrStore(typ, p)
	return cached.(*plan), nil
}

func buildPlan(typ reflect.Type) (*plan, error) {
	if typ.Kind() != reflect.Struct {
		return nil, &decanerrors.InvalidGroupError{Type: typ.String(), Reason: "symbol groups must be structs"}
	}

	p := &plan{typ: typ}
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		tag, hasTag := field.Tag.Lookup("dlsym")
		if !field.IsExported() || tag == "-" {
			continue
		}

		ptrType := reflect.PointerTo(field.Type)
		switch {
		case ptrType.Implements(symbolType):
			name := field.Name
			if hasTag && tag != "" {
				name = tag
			}
			p.members = append(p.members, member{kind: symbolMember, index: i, field: field.Name, symbol: name})

		case ptrType.Implements(groupLoaderType):
			p.members = append(p.members, member{kind: loaderMember, index: i, field: field.Name})

		case field.Type.Kind() == reflect.Struct:
			nested, err := planFor(field.Type)
			if err != nil {
				return nil, err
			}
			p.members = append(p.members, member{kind: structMember, index: i, field: field.Name, nested: nested})

		default:
			return nil, &decanerrors.InvalidGroupError{
				Type:   typ.String(),
				Field:  field.Name,
				Reason: fmt.Sprintf("type %s is neither a symbol nor a symbol group", field.Type),
			}
		}
	}
	return p, nil
}

// load resolves every member of the group into v, which must be addressable.
func (p *plan) load(handle raw.Handle, v reflect.Value) error {
	for _, m := range p.members {
		fv := v.Field(m.index)
		switch m.kind {
		case symbolMember:
			if err := LoadMember(handle, m.field, m.symbol, fv.Addr().Interface().(Symbol)); err != nil {
				return err
			}
		case loaderMember:
			if err := fv.Addr().Interface().(GroupLoader).LoadGroup(handle); err != nil {
				return err
			}
		case structMember:
			if err := m.nested.load(handle, fv); err != nil {
				return err
			}
		}
	}
	return nil
}
