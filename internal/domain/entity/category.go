package entity

import "fmt"

// Base базовая пиктограмма символа ухода
type Base uint8

const (
	BaseWash   Base = iota // стирка
	BaseBleach             // отбеливание
	BaseDry                // сушка
	BaseIron               // глажка
	BasePro                // профессиональная чистка
)

// BaseCount количество базовых категорий
const BaseCount = 5

var baseNames = [BaseCount]string{"wash", "bleach", "dry", "iron", "pro"}

var baseMeanings = [BaseCount]string{
	"wash",
	"bleach",
	"dry",
	"iron",
	"professional clean",
}

// Bases возвращает категории в порядке перебора шаблонов
func Bases() []Base {
	return []Base{BaseWash, BaseBleach, BaseDry, BaseIron, BasePro}
}

// Valid сообщает, входит ли значение в перечисление
func (b Base) Valid() bool {
	return b < BaseCount
}

// Name имя файла шаблона без расширения
func (b Base) Name() string {
	if !b.Valid() {
		return fmt.Sprintf("base(%d)", uint8(b))
	}
	return baseNames[b]
}

// Meaning человекочитаемое значение
func (b Base) Meaning() string {
	if !b.Valid() {
		return "unknown"
	}
	return baseMeanings[b]
}

func (b Base) String() string {
	return b.Name()
}

// InnerTemplate индекс шаблона внутреннего знака в библиотеке
type InnerTemplate uint8

const (
	InnerTemplate1Dot InnerTemplate = iota
	InnerTemplate2Dot
	InnerTemplate3Dot
	InnerTemplate4Dot
	InnerTemplate5Dot
	InnerTemplate6Dot
	InnerTemplate30
	InnerTemplate40
	InnerTemplate50
	InnerTemplate60
	InnerTemplate95
	InnerTemplateA
	InnerTemplateF
	InnerTemplateP
	InnerTemplateW
)

// InnerTemplateCount количество шаблонов внутренних знаков
const InnerTemplateCount = 15

var innerTemplateNames = [InnerTemplateCount]string{
	"1_dot", "2_dot", "3_dot", "4_dot", "5_dot", "6_dot",
	"30", "40", "50", "60", "95",
	"A", "F", "P", "W",
}

// InnerTemplates возвращает все индексы шаблонов по порядку
func InnerTemplates() []InnerTemplate {
	out := make([]InnerTemplate, InnerTemplateCount)
	for i := range out {
		out[i] = InnerTemplate(i)
	}
	return out
}

func (t InnerTemplate) Valid() bool {
	return t < InnerTemplateCount
}

// Name имя файла шаблона без расширения
func (t InnerTemplate) Name() string {
	if !t.Valid() {
		return fmt.Sprintf("inner(%d)", uint8(t))
	}
	return innerTemplateNames[t]
}

func (t InnerTemplate) String() string {
	return t.Name()
}

// Dots количество точек для точечных шаблонов, 0 для остальных
func (t InnerTemplate) Dots() int {
	if t <= InnerTemplate6Dot {
		return int(t) + 1
	}
	return 0
}

// Inner значение внутреннего знака в предметной области
type Inner uint8

const (
	InnerEmpty            Inner = iota
	InnerLowHeat                // одна точка на утюге или сушке
	InnerMediumHeat             // две точки
	InnerHighHeat               // три точки
	InnerTemp30                 // 30°C
	InnerTemp40                 // 40°C
	InnerTemp50                 // 50°C
	InnerTemp60                 // 60°C
	InnerTemp70                 // 70°C
	InnerTemp95                 // 95°C
	InnerAnySolvent             // A
	InnerPetroleumOnly          // F
	InnerAnySolventExceptTCE    // P
	InnerWetClean               // W
)

// InnerCount количество значений внутреннего знака
const InnerCount = 14

var innerMeanings = [InnerCount]string{
	"",
	"low temp",
	"medium temp",
	"high temp",
	"30",
	"40",
	"50",
	"60",
	"70",
	"95",
	"any solvent",
	"petroleum only",
	"any solvent except TCE",
	"wet clean",
}

func (i Inner) Valid() bool {
	return i < InnerCount
}

// Meaning человекочитаемое значение, пустое для InnerEmpty
func (i Inner) Meaning() string {
	if !i.Valid() {
		return "unknown"
	}
	return innerMeanings[i]
}

// Outer количество линий под символом или вокруг него
type Outer uint8

const (
	OuterNone         Outer = iota
	OuterDelicate           // одна линия
	OuterVeryDelicate       // две линии
)

var outerMeanings = [...]string{"", "delicate", "very delicate"}

// Meaning человекочитаемое значение
func (o Outer) Meaning() string {
	if int(o) < len(outerMeanings) {
		return outerMeanings[o]
	}
	return fmt.Sprintf("%d lines", uint8(o))
}
