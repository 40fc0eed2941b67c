package entity

// remap переводит индекс шаблона во внутреннее значение для каждой категории.
// Отсутствующие пары дают InnerEmpty.
var remap = [BaseCount]map[InnerTemplate]Inner{
	BaseWash: {
		InnerTemplate1Dot: InnerTemp30,
		InnerTemplate2Dot: InnerTemp40,
		InnerTemplate3Dot: InnerTemp50,
		InnerTemplate4Dot: InnerTemp60,
		InnerTemplate5Dot: InnerTemp70,
		InnerTemplate6Dot: InnerTemp95,
		InnerTemplate30:   InnerTemp30,
		InnerTemplate40:   InnerTemp40,
		InnerTemplate50:   InnerTemp50,
		InnerTemplate60:   InnerTemp60,
		InnerTemplate95:   InnerTemp95,
		InnerTemplateA:    InnerAnySolvent,
		InnerTemplateF:    InnerPetroleumOnly,
		InnerTemplateP:    InnerAnySolventExceptTCE,
		InnerTemplateW:    InnerWetClean,
	},
	BaseBleach: {},
	BaseDry: {
		InnerTemplate1Dot: InnerLowHeat,
		InnerTemplate2Dot: InnerMediumHeat,
		InnerTemplate3Dot: InnerHighHeat,
		InnerTemplate4Dot: InnerHighHeat,
		InnerTemplate5Dot: InnerHighHeat,
		InnerTemplate6Dot: InnerHighHeat,
	},
	BaseIron: {
		InnerTemplate1Dot: InnerLowHeat,
		InnerTemplate2Dot: InnerMediumHeat,
		InnerTemplate3Dot: InnerHighHeat,
		InnerTemplate4Dot: InnerHighHeat,
		InnerTemplate5Dot: InnerHighHeat,
		InnerTemplate6Dot: InnerHighHeat,
	},
	BasePro: {
		InnerTemplateA: InnerAnySolvent,
		InnerTemplateF: InnerPetroleumOnly,
		InnerTemplateP: InnerAnySolventExceptTCE,
		InnerTemplateW: InnerWetClean,
	},
}

// RemapInner возвращает значение внутреннего знака для пары
// (категория, шаблон). Отбеливание всегда даёт InnerEmpty, буквы под
// стиркой читаются как у химчистки.
func RemapInner(base Base, t InnerTemplate) Inner {
	if !base.Valid() {
		return InnerEmpty
	}
	return remap[base][t]
}
