package pipeline

// Params числовые параметры всех этапов
type Params struct {
	// этикетка
	LabelMaxSaturation uint8 `mapstructure:"label_max_saturation"`
	LabelMinValue      uint8 `mapstructure:"label_min_value"`
	LabelCloseRadius   int   `mapstructure:"label_close_radius"`
	LabelOpenRadius    int   `mapstructure:"label_open_radius"`

	// полоса символов
	BandChannel         int     `mapstructure:"band_channel"`
	BandMedianKSize     int     `mapstructure:"band_median_ksize"`
	BandInkSaturation   uint8   `mapstructure:"band_ink_saturation"`
	BandInkValue        uint8   `mapstructure:"band_ink_value"`
	BandMaskClose       int     `mapstructure:"band_mask_close"`
	BandMaskDilate      int     `mapstructure:"band_mask_dilate"`
	BandBackgroundKSize int     `mapstructure:"band_background_ksize"`
	BandCannyLow        float64 `mapstructure:"band_canny_low"`
	BandCannyHigh       float64 `mapstructure:"band_canny_high"`
	BandEdgeClose       int     `mapstructure:"band_edge_close"`
	BandOpenDivisor     int     `mapstructure:"band_open_divisor"`
	BandBridgeDivisor   int     `mapstructure:"band_bridge_divisor"`

	RefineSideMargin int `mapstructure:"refine_side_margin"`
	RefineHDivisor   int `mapstructure:"refine_h_divisor"`
	RefineVDivisor   int `mapstructure:"refine_v_divisor"`
	RefineBridge     int `mapstructure:"refine_bridge"`
	AlignHDivisor    int `mapstructure:"align_h_divisor"`
	AlignVDivisor    int `mapstructure:"align_v_divisor"`

	// выделение символов
	MaxSymbols          int     `mapstructure:"max_symbols"`
	IsolateAdaptiveC    float64 `mapstructure:"isolate_adaptive_c"`
	IsolateCloseDivisor int     `mapstructure:"isolate_close_divisor"`
	IsolateOpenDivisor  int     `mapstructure:"isolate_open_divisor"`
	IsolateWidthScale   float64 `mapstructure:"isolate_width_scale"`
	IsolateHeightScale  float64 `mapstructure:"isolate_height_scale"`

	// очистка символа
	CleanDilateRadius    int     `mapstructure:"clean_dilate_radius"`
	CleanBackgroundKSize int     `mapstructure:"clean_background_ksize"`
	CleanAdaptiveC       float64 `mapstructure:"clean_adaptive_c"`

	// сравнение с шаблонами
	InnerCloseRadius int `mapstructure:"inner_close_radius"`
	TemplateBorder   int `mapstructure:"template_border"`
	BaseTolerance    int `mapstructure:"base_tolerance"`
	InnerTolerance   int `mapstructure:"inner_tolerance"`
	OuterOpenRadius  int `mapstructure:"outer_open_radius"`

	// DebugImagePath куда сохранить выровненную полосу; пусто - не сохранять
	DebugImagePath string `mapstructure:"debug_image_path"`
}

// DefaultParams значения по умолчанию
func DefaultParams() Params {
	return Params{
		LabelMaxSaturation: 60,
		LabelMinValue:      100,
		LabelCloseRadius:   10,
		LabelOpenRadius:    30,

		BandChannel:         2,
		BandMedianKSize:     3,
		BandInkSaturation:   32,
		BandInkValue:        64,
		BandMaskClose:       5,
		BandMaskDilate:      10,
		BandBackgroundKSize: 31,
		BandCannyLow:        127,
		BandCannyHigh:       200,
		BandEdgeClose:       2,
		BandOpenDivisor:     35,
		BandBridgeDivisor:   6,

		RefineSideMargin: 20,
		RefineHDivisor:   35,
		RefineVDivisor:   40,
		RefineBridge:     8,
		AlignHDivisor:    30,
		AlignVDivisor:    40,

		MaxSymbols:          5,
		IsolateAdaptiveC:    5,
		IsolateCloseDivisor: 30,
		IsolateOpenDivisor:  15,
		IsolateWidthScale:   1.4,
		IsolateHeightScale:  1.2,

		CleanDilateRadius:    2,
		CleanBackgroundKSize: 15,
		CleanAdaptiveC:       25,

		InnerCloseRadius: 10,
		TemplateBorder:   5,
		BaseTolerance:    2,
		InnerTolerance:   0,
		OuterOpenRadius:  1,
	}
}
