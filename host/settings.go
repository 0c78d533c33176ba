// Copyright 2018-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/beevik/prefixtree/v2"
)

type settings struct {
	HexMode         bool   `doc:"hexadecimal input mode"`
	MemDumpBytes    int    `doc:"default number of memory bytes to dump" min:"1" max:"65536"`
	MaxStepLines    int    `doc:"max lines to display when stepping" min:"0" max:"10000"`
	TickBatch       int    `doc:"default number of cycles to tick" min:"1" max:"100000000"`
	NextMemDumpAddr uint32 `doc:"address of next memory dump"`
	LogLevel        string `doc:"cpu event log level"`
}

func newSettings() *settings {
	return &settings{
		HexMode:         false,
		MemDumpBytes:    64,
		MaxStepLines:    20,
		TickBatch:       1000,
		NextMemDumpAddr: 0,
		LogLevel:        "warning",
	}
}

type settingsField struct {
	name     string
	index    int
	kind     reflect.Kind
	typ      reflect.Type
	doc      string
	min, max int64
	bounded  bool
}

var (
	settingsTree   = prefixtree.New[*settingsField]()
	settingsFields []settingsField
)

func init() {
	settingsType := reflect.TypeOf(settings{})
	settingsFields = make([]settingsField, settingsType.NumField())
	for i := 0; i < len(settingsFields); i++ {
		f := settingsType.Field(i)
		doc, _ := f.Tag.Lookup("doc")
		settingsFields[i] = settingsField{
			name:  f.Name,
			index: i,
			kind:  f.Type.Kind(),
			typ:   f.Type,
			doc:   doc,
		}
		if lo, ok := f.Tag.Lookup("min"); ok {
			hi := f.Tag.Get("max")
			settingsFields[i].min, _ = strconv.ParseInt(lo, 10, 64)
			settingsFields[i].max, _ = strconv.ParseInt(hi, 10, 64)
			settingsFields[i].bounded = true
		}
		settingsTree.Add(strings.ToLower(f.Name), &settingsFields[i])
	}
}

func (s *settings) Display(w io.Writer) {
	value := reflect.ValueOf(s).Elem()
	for i, f := range settingsFields {
		v := value.Field(i)
		var s string
		switch f.kind {
		case reflect.String:
			s = fmt.Sprintf("    %-16s \"%s\"", f.name, v.String())
		case reflect.Uint32:
			s = fmt.Sprintf("    %-16s $%08X", f.name, uint32(v.Uint()))
		default:
			s = fmt.Sprintf("    %-16s %v", f.name, v)
		}
		fmt.Fprintf(w, "%-32s (%s)\n", s, f.doc)
	}
}

func (s *settings) Kind(key string) reflect.Kind {
	f, err := settingsTree.FindValue(strings.ToLower(key))
	if err != nil {
		return reflect.Invalid
	}
	return f.kind
}

func (s *settings) Set(key string, value any) error {
	f, err := settingsTree.FindValue(strings.ToLower(key))
	if err != nil {
		return err
	}

	vIn := reflect.ValueOf(value)
	if (f.kind == reflect.String && vIn.Type().Kind() != reflect.String) ||
		(f.kind != reflect.String && vIn.Type().Kind() == reflect.String) ||
		!vIn.Type().ConvertibleTo(f.typ) {
		return errors.New("invalid type")
	}
	vInConverted := vIn.Convert(f.typ)

	// Range-checked settings are plain ints; compare before converting so
	// a large unsigned input cannot wrap into range.
	if f.bounded {
		var n int64
		switch {
		case vIn.CanInt():
			n = vIn.Int()
		case vIn.CanUint() && vIn.Uint() <= uint64(f.max):
			n = int64(vIn.Uint())
		default:
			n = f.max + 1
		}
		if n < f.min || n > f.max {
			return fmt.Errorf("%s must be between %d and %d", f.name, f.min, f.max)
		}
	}

	vOut := reflect.ValueOf(s).Elem().Field(f.index)
	vOut.Set(vInConverted)

	return nil
}
