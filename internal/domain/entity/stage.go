package entity

import (
	"errors"
	"fmt"
)

// Stage этап обработки снимка; значение совпадает с кодом выхода CLI
type Stage int

const (
	StageUsage          Stage = iota + 1 // неверные аргументы
	StageInit                            // инициализация
	StageTemplates                       // загрузка шаблонов
	StageDecode                          // чтение снимка
	StageLabel                           // поиск этикетки
	StageBandVertical                    // поиск полосы символов по вертикали
	StageBandHorizontal                  // обрезка полосы по горизонтали
	StageAlign                           // выравнивание полосы
	StageIsolate                         // выделение символов
	StageGlyph                           // распознавание символа
)

var stageNames = map[Stage]string{
	StageUsage:          "usage",
	StageInit:           "init",
	StageTemplates:      "templates",
	StageDecode:         "decode",
	StageLabel:          "label",
	StageBandVertical:   "band vertical",
	StageBandHorizontal: "band horizontal",
	StageAlign:          "align",
	StageIsolate:        "isolate",
	StageGlyph:          "glyph",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

var (
	ErrNoLabelFound        = errors.New("no label found")
	ErrNoSymbolRowFound    = errors.New("no symbol row found")
	ErrNoSymbolsFound      = errors.New("no symbols found")
	ErrSymbolCountMismatch = errors.New("symbol count mismatch")
)

// StageError ошибка с указанием этапа, на котором она возникла
type StageError struct {
	Stage Stage
	Err   error
}

// NewStageError оборачивает ошибку этапом; nil остаётся nil, а уже
// помеченная ошибка сохраняет исходный этап
func NewStageError(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	var se *StageError
	if errors.As(err, &se) {
		return err
	}
	return &StageError{Stage: stage, Err: err}
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// ExitCode код завершения процесса для этапа
func (e *StageError) ExitCode() int {
	return int(e.Stage)
}

// StageOf возвращает этап ошибки, если он известен
func StageOf(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return 0, false
}
