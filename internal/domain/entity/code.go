package entity

import (
	"errors"
	"fmt"
	"strconv"
)

// Разметка битового поля кода, младший бит первым.
const (
	codeBasePos  = 1
	codeBaseLen  = 3
	codeAllowPos = codeBasePos + codeBaseLen
	codeInPos    = codeAllowPos + 1
	codeInLen    = 6
	codeOutPos   = codeInPos + codeInLen
	codeOutLen   = 5
)

// Предельные значения полей кода.
const (
	MaxBaseField  = 1<<codeBaseLen - 1
	MaxInnerField = 1<<codeInLen - 1
	MaxOuterField = 1<<codeOutLen - 1
)

// ErrFieldOverflow значение не помещается в поле кода
var ErrFieldOverflow = errors.New("code field overflow")

// Code упакованный результат распознавания одного символа
type Code uint16

// Fields распакованные поля кода
type Fields struct {
	Base    Base
	Allowed bool
	Inner   Inner
	Outer   Outer
}

// Encode упаковывает поля в код
func Encode(f Fields) (Code, error) {
	if f.Base > MaxBaseField {
		return 0, fmt.Errorf("base %d: %w", f.Base, ErrFieldOverflow)
	}
	if f.Inner > MaxInnerField {
		return 0, fmt.Errorf("inner %d: %w", f.Inner, ErrFieldOverflow)
	}
	if f.Outer > MaxOuterField {
		return 0, fmt.Errorf("outer %d: %w", f.Outer, ErrFieldOverflow)
	}

	var c Code
	c = c.write(codeBasePos, codeBaseLen, uint16(f.Base))
	if f.Allowed {
		c = c.write(codeAllowPos, 1, 1)
	}
	c = c.write(codeInPos, codeInLen, uint16(f.Inner))
	c = c.write(codeOutPos, codeOutLen, uint16(f.Outer))
	return c, nil
}

// Decode распаковывает код в поля
func Decode(c Code) Fields {
	return Fields{
		Base:    c.Base(),
		Allowed: c.Allowed(),
		Inner:   c.Inner(),
		Outer:   c.Outer(),
	}
}

func (c Code) Base() Base {
	return Base(c.read(codeBasePos, codeBaseLen))
}

func (c Code) Allowed() bool {
	return c.read(codeAllowPos, 1) == 1
}

func (c Code) Inner() Inner {
	return Inner(c.read(codeInPos, codeInLen))
}

func (c Code) Outer() Outer {
	return Outer(c.read(codeOutPos, codeOutLen))
}

// String двоичная запись кода, старший бит первым
func (c Code) String() string {
	return fmt.Sprintf("%016b", uint16(c))
}

// ParseCode разбирает двоичную запись, полученную из String
func ParseCode(s string) (Code, error) {
	v, err := strconv.ParseUint(s, 2, 16)
	if err != nil {
		return 0, fmt.Errorf("parse code %q: %w", s, err)
	}
	return Code(v), nil
}

// Describe человекочитаемое описание кода
func (c Code) Describe() string {
	f := Decode(c)
	if !f.Allowed {
		return "do not " + f.Base.Meaning()
	}
	s := f.Base.Meaning()
	if m := f.Inner.Meaning(); m != "" {
		s += ", " + m
	}
	if m := f.Outer.Meaning(); m != "" {
		s += ", " + m
	}
	return s
}

func (c Code) read(pos, n uint) uint16 {
	return (uint16(c) >> pos) & (1<<n - 1)
}

func (c Code) write(pos, n uint, v uint16) Code {
	mask := uint16(1<<n-1) << pos
	return Code((uint16(c) &^ mask) | (v<<pos)&mask)
}
