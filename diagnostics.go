// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package decan

import (
	"fmt"
	"reflect"

	jsoniter "github.com/json-iterator/go"

	"github.com/DataDog/go-decan/decanerrors"
	"github.com/DataDog/go-decan/raw"
)

// Diagnostics describes the symbols of a resolved group.
type Diagnostics struct {
	// Group is the name of the group's type.
	Group string `json:"group"`
	// Symbols lists the group's symbols in declaration order, nested groups
	// included.
	Symbols []SymbolDiagnostic `json:"symbols"`
	// Absent lists the optional groups which could not be resolved.
	Absent []AbsentGroup `json:"absent,omitempty"`
	// Opaque lists the field paths of groups implementing [GroupLoader] but not
	// [SymbolDescriber]. The empty path is the described group itself.
	Opaque []string `json:"opaque,omitempty"`
}

// SymbolDiagnostic describes one resolved symbol.
type SymbolDiagnostic struct {
	// Field is the dotted path of the field within the group.
	Field string `json:"field"`
	// Symbol is the export name.
	Symbol string `json:"symbol"`
	// Address is the resolved address, 0 for null values and absent functions.
	Address uintptr `json:"address"`
	// Location describes the image containing Address, when known.
	Location *raw.AddressInfo `json:"location,omitempty"`
}

// AbsentGroup describes an optional group which was not resolved.
type AbsentGroup struct {
	Field string `json:"field"`
	Cause string `json:"cause,omitempty"`
}

// SymbolDescriber is implemented by [GroupLoader]s to report their symbols to
// [Describe]. DescribeSymbols calls describe once per symbol, with the field
// path relative to the group, the export name given to [LoadMember] and the
// resolved symbol.
type SymbolDescriber interface {
	DescribeSymbols(describe func(field, name string, sym Symbol))
}

// describer is implemented by [Optional].
type describer interface {
	describe() (group any, present bool, cause error)
}

var (
	describerType       = reflect.TypeFor[describer]()
	symbolDescriberType = reflect.TypeFor[SymbolDescriber]()
)

// Describe reports the symbols of group, a group resolved by [LoadGroup] or a
// pointer to one. [GroupLoader]s are described through [SymbolDescriber]; those
// which do not implement it are listed in [Diagnostics.Opaque].
func Describe(group any) (Diagnostics, error) {
	v := reflect.ValueOf(group)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	} else if v.IsValid() {
		addressable := reflect.New(v.Type()).Elem()
		addressable.Set(v)
		v = addressable
	}
	if !v.IsValid() {
		return Diagnostics{}, &decanerrors.InvalidGroupError{Type: fmt.Sprintf("%T", group), Reason: "cannot describe a nil group"}
	}

	diag := Diagnostics{Group: v.Type().String()}
	if err := describeValue(&diag, v, ""); err != nil {
		return Diagnostics{}, err
	}
	return diag, nil
}

// JSON encodes the diagnostics.
func (d Diagnostics) JSON() ([]byte, error) {
	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(d)
}

// describeValue describes the group held by the addressable value v, found at
// path within the described group.
func describeValue(diag *Diagnostics, v reflect.Value, path string) error {
	ptr := v.Addr()
	switch {
	case ptr.Type().Implements(describerType):
		inner, present, cause := ptr.Interface().(describer).describe()
		if !present {
			absent := AbsentGroup{Field: path}
			if cause != nil {
				absent.Cause = cause.Error()
			}
			diag.Absent = append(diag.Absent, absent)
			return nil
		}
		return describeValue(diag, reflect.ValueOf(inner).Elem(), path)

	case ptr.Type().Implements(symbolDescriberType):
		ptr.Interface().(SymbolDescriber).DescribeSymbols(func(field, name string, sym Symbol) {
			diag.addSymbol(joinField(path, field), name, sym)
		})
		return nil

	case ptr.Type().Implements(groupLoaderType):
		diag.Opaque = append(diag.Opaque, path)
		return nil
	}

	p, err := planFor(v.Type())
	if err != nil {
		return err
	}
	return describePlan(diag, p, v, path)
}

func describePlan(diag *Diagnostics, p *plan, v reflect.Value, path string) error {
	for _, m := range p.members {
		fv := v.Field(m.index)
		field := joinField(path, m.field)

		switch m.kind {
		case symbolMember:
			diag.addSymbol(field, m.symbol, fv.Addr().Interface().(Symbol))
		case structMember:
			if err := describePlan(diag, m.nested, fv, field); err != nil {
				return err
			}
		case loaderMember:
			if err := describeValue(diag, fv, field); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Diagnostics) addSymbol(field, name string, sym Symbol) {
	entry := SymbolDiagnostic{Field: field, Symbol: name, Address: sym.address()}
	if info, ok := raw.AddressOf(entry.Address); ok {
		entry.Location = &info
	}
	d.Symbols = append(d.Symbols, entry)
}

func joinField(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}

// Diagnostics describes the symbols of the Can.
func (can *Can[G]) Diagnostics() (Diagnostics, error) {
	return Describe(can.Symbols())
}
