package pipeline

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"care-label-reader/internal/domain/entity"
	"care-label-reader/internal/domain/port"
)

// Reader полный проход от фотографии до кодов символов
type Reader struct {
	*Pipeline
	matcher *Matcher
}

// NewReader собирает распознавание поверх загруженной библиотеки шаблонов
func NewReader(im port.Imager, lib *Library, params Params, log *zap.Logger) *Reader {
	p := New(im, params, log)
	return &Reader{Pipeline: p, matcher: NewMatcher(p, lib)}
}

// Read декодирует фотографию и распознаёт её
func (r *Reader) Read(ctx context.Context, photo []byte, expected int) ([]entity.Code, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := r.im.Decode(photo, false)
	if err != nil {
		return nil, entity.NewStageError(entity.StageDecode, err)
	}
	defer img.Close()
	return r.ReadImage(ctx, img, expected)
}

// ReadImage распознаёт символы на изображении. Ошибка любого символа
// прерывает разбор всего изображения
func (r *Reader) ReadImage(ctx context.Context, photo port.Image, expected int) ([]entity.Code, error) {
	var s scope
	defer s.close()

	label, err := r.LocateLabel(photo)
	if err != nil {
		return nil, entity.NewStageError(entity.StageLabel, err)
	}
	s.keep(label)

	band, err := r.LocateBand(label)
	if err != nil {
		return nil, entity.NewStageError(entity.StageBandVertical, err)
	}
	s.keep(band)

	refined, err := r.RefineBand(band)
	if err != nil {
		return nil, entity.NewStageError(entity.StageBandHorizontal, err)
	}
	s.keep(refined)

	aligned, err := r.AlignBand(refined)
	if err != nil {
		return nil, entity.NewStageError(entity.StageAlign, err)
	}
	s.keep(aligned)
	r.writeDebug(aligned)

	glyphs, err := r.IsolateSymbols(aligned, expected)
	if err != nil {
		return nil, entity.NewStageError(entity.StageIsolate, err)
	}
	defer CloseGlyphs(glyphs)

	codes := make([]entity.Code, 0, len(glyphs))
	for _, g := range glyphs {
		if err := ctx.Err(); err != nil {
			return nil, entity.NewStageError(entity.StageGlyph, err)
		}
		code, err := r.ReadGlyph(g)
		if err != nil {
			return nil, entity.NewStageError(entity.StageGlyph, err)
		}
		codes = append(codes, code)
	}
	r.log.Debug("label read", zap.Int("symbols", len(codes)))
	return codes, nil
}

// ReadGlyph очищает и распознаёт один выделенный символ
func (r *Reader) ReadGlyph(g *Glyph) (entity.Code, error) {
	code, err := r.readGlyph(g)
	if err != nil {
		g.Fail(err)
		return 0, fmt.Errorf("symbol %d: %w", g.Index, err)
	}
	return code, nil
}

func (r *Reader) readGlyph(g *Glyph) (entity.Code, error) {
	clean, err := r.CleanSymbol(g.Image)
	if err != nil {
		return 0, err
	}
	defer clean.Close()
	if err := g.Advance(entity.SymbolCleaned); err != nil {
		return 0, err
	}
	return r.matcher.Classify(clean, g.Symbol)
}

// writeDebug сохраняет выровненную полосу, если задан путь
func (r *Reader) writeDebug(band port.Image) {
	path := r.params.DebugImagePath
	if path == "" {
		return
	}
	data, err := r.im.Encode(band, ".png")
	if err == nil {
		err = os.WriteFile(path, data, 0o644)
	}
	if err != nil {
		r.log.Warn("failed to write debug image", zap.String("path", path), zap.Error(err))
	}
}

var _ port.LabelReader = (*Reader)(nil)
