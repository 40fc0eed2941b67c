package entity

// Reading результат распознавания одного снимка
type Reading struct {
	Hash     string `json:"md5"`      // MD5 исходного файла
	Expected int    `json:"expected"` // ожидаемое число символов, 0 если не задано
	Codes    []Code `json:"codes"`    // коды слева направо
}

// Lines двоичные записи кодов по одной на символ
func (r *Reading) Lines() []string {
	out := make([]string, len(r.Codes))
	for i, c := range r.Codes {
		out[i] = c.String()
	}
	return out
}

// Descriptions человекочитаемые описания кодов
func (r *Reading) Descriptions() []string {
	out := make([]string, len(r.Codes))
	for i, c := range r.Codes {
		out[i] = c.Describe()
	}
	return out
}
