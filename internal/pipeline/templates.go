package pipeline

import (
	"fmt"
	"image"
	"io/fs"
	"path"
	"sync"

	"care-label-reader/internal/domain/entity"
	"care-label-reader/internal/domain/port"
)

const templateExt = ".png"

// Template эталонный символ, обрезанный по собственному контуру
type Template struct {
	Name  string
	Image port.Image
}

// Library набор шаблонов; после загрузки только читается
type Library struct {
	Allowed   [entity.BaseCount]Template
	Forbidden [entity.BaseCount]Template
	Inner     [entity.InnerTemplateCount]Template

	closeOnce sync.Once
}

// LoadTemplates читает base/<name>.png, base/<name>_not.png и inner/<name>.png
func LoadTemplates(fsys fs.FS, im port.Imager, params Params) (*Library, error) {
	p := New(im, params, nil)
	lib := &Library{}
	ok := false
	defer func() {
		if !ok {
			lib.Close()
		}
	}()

	for _, b := range entity.Bases() {
		t, err := p.loadBase(fsys, b.Name())
		if err != nil {
			return nil, err
		}
		lib.Allowed[b] = t

		t, err = p.loadBase(fsys, b.Name()+"_not")
		if err != nil {
			return nil, err
		}
		lib.Forbidden[b] = t
	}
	for _, it := range entity.InnerTemplates() {
		t, err := p.loadInner(fsys, it.Name())
		if err != nil {
			return nil, err
		}
		lib.Inner[it] = t
	}

	ok = true
	return lib, nil
}

// Close освобождает изображения шаблонов; повторный вызов ничего не делает
func (l *Library) Close() error {
	l.closeOnce.Do(func() {
		for _, set := range [][]Template{l.Allowed[:], l.Forbidden[:], l.Inner[:]} {
			for i := range set {
				if set[i].Image != nil {
					_ = set[i].Image.Close()
					set[i].Image = nil
				}
			}
		}
	})
	return nil
}

func (p *Pipeline) readTemplate(fsys fs.FS, dir, name string) (port.Image, error) {
	file := path.Join(dir, name+templateExt)
	data, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, entity.NewStageError(entity.StageTemplates, fmt.Errorf("read template %s: %w", file, err))
	}
	img, err := p.im.Decode(data, true)
	if err != nil {
		return nil, entity.NewStageError(entity.StageTemplates, fmt.Errorf("decode template %s: %w", file, err))
	}
	return img, nil
}

func (p *Pipeline) loadBase(fsys fs.FS, name string) (Template, error) {
	var s scope
	defer s.close()

	img, err := p.readTemplate(fsys, "base", name)
	if err != nil {
		return Template{}, err
	}
	bin := s.keep(p.im.Threshold(s.keep(img), 0, true, true))

	c, ok := p.largest(bin)
	if !ok {
		return Template{}, emptyTemplate("base", name)
	}
	crop, ok := cropClone(p.im, bin, c.Bounds)
	if !ok {
		return Template{}, emptyTemplate("base", name)
	}
	return Template{Name: name, Image: crop}, nil
}

func (p *Pipeline) loadInner(fsys fs.FS, name string) (Template, error) {
	var s scope
	defer s.close()

	img, err := p.readTemplate(fsys, "inner", name)
	if err != nil {
		return Template{}, err
	}
	bin := s.keep(p.im.Threshold(s.keep(img), 0, true, true))
	bin = s.keep(p.im.Border(bin, p.params.TemplateBorder))

	box, ok := p.inkBounds(bin, p.params.InnerCloseRadius)
	if !ok {
		return Template{}, emptyTemplate("inner", name)
	}
	crop, ok := cropClone(p.im, bin, box)
	if !ok {
		return Template{}, emptyTemplate("inner", name)
	}
	return Template{Name: name, Image: crop}, nil
}

// inkBounds рамка группы штрихов: самая крупная область после замыкания
// радиусом r, сжатая до штрихов, которые её пересекают
func (p *Pipeline) inkBounds(bin port.Image, r int) (image.Rectangle, bool) {
	closed := p.closing(bin, r, r)
	defer closed.Close()

	blob, ok := p.largest(closed)
	if !ok {
		return image.Rectangle{}, false
	}
	var box image.Rectangle
	for _, c := range p.im.Contours(bin) {
		if c.Bounds.Overlaps(blob.Bounds) {
			box = box.Union(c.Bounds)
		}
	}
	return box, !box.Empty()
}

func emptyTemplate(dir, name string) error {
	return entity.NewStageError(entity.StageTemplates, fmt.Errorf("template %s/%s%s has no ink", dir, name, templateExt))
}
