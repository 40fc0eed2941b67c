package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRemapInner(t *testing.T) {
	cases := []struct {
		base Base
		in   InnerTemplate
		want Inner
	}{
		{BaseWash, InnerTemplate1Dot, InnerTemp30},
		{BaseWash, InnerTemplate2Dot, InnerTemp40},
		{BaseWash, InnerTemplate3Dot, InnerTemp50},
		{BaseWash, InnerTemplate4Dot, InnerTemp60},
		{BaseWash, InnerTemplate5Dot, InnerTemp70},
		{BaseWash, InnerTemplate6Dot, InnerTemp95},
		{BaseWash, InnerTemplate30, InnerTemp30},
		{BaseWash, InnerTemplate40, InnerTemp40},
		{BaseWash, InnerTemplate50, InnerTemp50},
		{BaseWash, InnerTemplate60, InnerTemp60},
		{BaseWash, InnerTemplate95, InnerTemp95},
		{BaseWash, InnerTemplateA, InnerAnySolvent},
		{BaseWash, InnerTemplateF, InnerPetroleumOnly},
		{BaseWash, InnerTemplateP, InnerAnySolventExceptTCE},
		{BaseWash, InnerTemplateW, InnerWetClean},

		{BaseDry, InnerTemplate1Dot, InnerLowHeat},
		{BaseDry, InnerTemplate2Dot, InnerMediumHeat},
		{BaseDry, InnerTemplate3Dot, InnerHighHeat},
		{BaseDry, InnerTemplate6Dot, InnerHighHeat},
		{BaseDry, InnerTemplate40, InnerEmpty},
		{BaseDry, InnerTemplateP, InnerEmpty},

		{BaseIron, InnerTemplate1Dot, InnerLowHeat},
		{BaseIron, InnerTemplate2Dot, InnerMediumHeat},
		{BaseIron, InnerTemplate3Dot, InnerHighHeat},
		{BaseIron, InnerTemplate4Dot, InnerHighHeat},
		{BaseIron, InnerTemplate5Dot, InnerHighHeat},
		{BaseIron, InnerTemplate95, InnerEmpty},

		{BasePro, InnerTemplateA, InnerAnySolvent},
		{BasePro, InnerTemplateF, InnerPetroleumOnly},
		{BasePro, InnerTemplateP, InnerAnySolventExceptTCE},
		{BasePro, InnerTemplateW, InnerWetClean},
		{BasePro, InnerTemplate1Dot, InnerEmpty},
		{BasePro, InnerTemplate30, InnerEmpty},
	}

	for _, tc := range cases {
		t.Run(tc.base.Name()+"/"+tc.in.Name(), func(t *testing.T) {
			require.Equal(t, tc.want, RemapInner(tc.base, tc.in))
		})
	}
}

func TestRemapInner_BleachAlwaysEmpty(t *testing.T) {
	for _, in := range InnerTemplates() {
		require.Equal(t, InnerEmpty, RemapInner(BaseBleach, in), in.Name())
	}
}

func TestRemapInner_UnknownBase(t *testing.T) {
	require.Equal(t, InnerEmpty, RemapInner(Base(7), InnerTemplate40))
}
