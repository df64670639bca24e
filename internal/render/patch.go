package render

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"regexp"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/D-Sokol/schedule-bot/internal/model"
)

// ImageRef ссылка патча на изображение-элемент:
// либо явный идентификатор, либо имя глобального элемента.
type ImageRef struct {
	ElementID string `json:"element_id,omitempty"`
	Name      string `json:"name,omitempty"`
}

// ImageResolver находит изображение по ссылке из шаблона.
// Неразрешимая ссылка — ошибка рендера, а не тихий пропуск.
type ImageResolver interface {
	Resolve(ctx context.Context, ref ImageRef) (image.Image, error)
}

// Canvas поверхность отрисовки с доступом к изображениям-элементам
type Canvas struct {
	DC     *gg.Context
	Images ImageResolver
}

// Patch единица композиции, накладываемая на холст
type Patch interface {
	// Apply рисует патч. Видимость по меткам проверяет вышестоящий PatchSet.
	Apply(ctx context.Context, c *Canvas, args FormatArgs, tags model.TagSet) error
	// Visible проверяет условие видимости патча для набора меток записи
	Visible(tags model.TagSet) bool
}

// TagGate условие видимости патча: все required_tags присутствуют,
// ни одной из forbidden_tags нет. Явные метки записи и неявная total=N
// образуют единое плоское множество.
type TagGate struct {
	RequiredTags  model.TagSet `json:"required_tags,omitempty"`
	ForbiddenTags model.TagSet `json:"forbidden_tags,omitempty"`
}

// Visible проверяет выполнение условия для набора меток
func (g TagGate) Visible(tags model.TagSet) bool {
	for t := range g.RequiredTags {
		if !tags.Has(t) {
			return false
		}
	}
	for t := range g.ForbiddenTags {
		if tags.Has(t) {
			return false
		}
	}
	return true
}

var anchorPattern = regexp.MustCompile(`^[lmr][amsbd]$`)

// TextPatch текстовая надпись с шаблоном подстановки.
// Цвета и шрифт проверяются и загружаются при разборе шаблона,
// чтобы сломанный шаблон падал до постановки задачи в очередь.
type TextPatch struct {
	XY          [2]int
	Text        string
	Color       string
	Anchor      string
	FontSize    int
	FontName    string
	StrokeWidth int
	StrokeColor string
	Case        string
	TagGate

	fill   color.Color
	stroke color.Color
	face   font.Face
}

type textPatchJSON struct {
	XY          [2]int       `json:"xy"`
	Text        string       `json:"text"`
	Color       string       `json:"color"`
	Anchor      string       `json:"anchor,omitempty"`
	FontSize    int          `json:"font_size,omitempty"`
	FontName    string       `json:"font_name,omitempty"`
	StrokeWidth int          `json:"stroke_width,omitempty"`
	StrokeColor string       `json:"stroke_color,omitempty"`
	Case        string       `json:"case,omitempty"`
	Tag         string       `json:"tag,omitempty"`
	Required    model.TagSet `json:"required_tags,omitempty"`
	Forbidden   model.TagSet `json:"forbidden_tags,omitempty"`
}

// UnmarshalJSON читает патч и сразу валидирует его ссылки
func (p *TextPatch) UnmarshalJSON(data []byte) error {
	aux := textPatchJSON{
		Anchor:   "la",
		FontSize: 28,
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.XY = aux.XY
	p.Text = aux.Text
	p.Color = aux.Color
	p.Anchor = aux.Anchor
	p.FontSize = aux.FontSize
	p.FontName = aux.FontName
	p.StrokeWidth = aux.StrokeWidth
	p.StrokeColor = aux.StrokeColor
	p.Case = aux.Case
	p.RequiredTags = aux.Required
	p.ForbiddenTags = aux.Forbidden

	// устаревшее одиночное поле tag сворачивается в required_tags один раз при загрузке
	if aux.Tag != "" {
		if p.RequiredTags == nil {
			p.RequiredTags = model.NewTagSet()
		}
		p.RequiredTags.Add(aux.Tag)
	}
	return p.validate()
}

func (p *TextPatch) validate() error {
	if !anchorPattern.MatchString(p.Anchor) {
		return fmt.Errorf("malformed text anchor %q", p.Anchor)
	}
	if !ValidTextCase(p.Case) {
		return fmt.Errorf("unknown text case %q", p.Case)
	}
	var err error
	if p.fill, err = ParseColor(p.Color); err != nil {
		return err
	}
	if p.StrokeColor != "" {
		if p.stroke, err = ParseColor(p.StrokeColor); err != nil {
			return err
		}
	}
	if p.face, err = LoadFontFace(p.FontName, p.FontSize); err != nil {
		return err
	}
	return nil
}

// MarshalJSON сериализует патч в форму, которую читает UnmarshalJSON
func (p *TextPatch) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		textPatchJSON
	}{
		Type: "text",
		textPatchJSON: textPatchJSON{
			XY:          p.XY,
			Text:        p.Text,
			Color:       p.Color,
			Anchor:      p.Anchor,
			FontSize:    p.FontSize,
			FontName:    p.FontName,
			StrokeWidth: p.StrokeWidth,
			StrokeColor: p.StrokeColor,
			Case:        p.Case,
			Required:    p.RequiredTags,
			Forbidden:   p.ForbiddenTags,
		},
	})
}

// Apply подставляет аргументы в шаблон текста и рисует его с якорем и обводкой
func (p *TextPatch) Apply(_ context.Context, c *Canvas, args FormatArgs, _ model.TagSet) error {
	text, err := args.Expand(p.Text)
	if err != nil {
		return Domainf("text patch at (%d, %d): %v", p.XY[0], p.XY[1], err)
	}
	text = transformCase(text, p.Case)

	dc := c.DC
	dc.SetFontFace(p.face)

	lines := strings.Split(text, "\n")
	lineHeight := dc.FontHeight() * 1.2
	blockHeight := lineHeight * float64(len(lines))
	x := float64(p.XY[0])
	top := float64(p.XY[1]) + verticalOffset(p.Anchor[1], lineHeight, blockHeight)
	ax := horizontalFraction(p.Anchor[0])

	for i, line := range lines {
		y := top + float64(i)*lineHeight
		if p.StrokeWidth > 0 && p.stroke != nil {
			dc.SetColor(p.stroke)
			w := float64(p.StrokeWidth)
			for _, d := range [8][2]float64{
				{-w, -w}, {0, -w}, {w, -w}, {-w, 0}, {w, 0}, {-w, w}, {0, w}, {w, w},
			} {
				dc.DrawStringAnchored(line, x+d[0], y+d[1], ax, 1)
			}
		}
		dc.SetColor(p.fill)
		dc.DrawStringAnchored(line, x, y, ax, 1)
	}
	return nil
}

func horizontalFraction(anchor byte) float64 {
	switch anchor {
	case 'm':
		return 0.5
	case 'r':
		return 1
	default: // 'l'
		return 0
	}
}

// verticalOffset смещение верха текстового блока относительно якорной точки
func verticalOffset(anchor byte, lineHeight, blockHeight float64) float64 {
	switch anchor {
	case 'm':
		return -blockHeight / 2
	case 's':
		return -lineHeight
	case 'b', 'd':
		return -blockHeight
	default: // 'a' — верх первой строки в якорной точке
		return 0
	}
}

// ImagePatch накладывает изображение-элемент, используя его альфа-канал как маску
type ImagePatch struct {
	XY  [2]int
	Ref ImageRef
	TagGate
}

type imagePatchJSON struct {
	XY        [2]int       `json:"xy"`
	ElementID string       `json:"element_id,omitempty"`
	Name      string       `json:"name,omitempty"`
	Tag       string       `json:"tag,omitempty"`
	Required  model.TagSet `json:"required_tags,omitempty"`
	Forbidden model.TagSet `json:"forbidden_tags,omitempty"`
}

// UnmarshalJSON читает патч; требуется либо element_id, либо name
func (p *ImagePatch) UnmarshalJSON(data []byte) error {
	var aux imagePatchJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.XY = aux.XY
	p.Ref = ImageRef{ElementID: aux.ElementID, Name: aux.Name}
	p.RequiredTags = aux.Required
	p.ForbiddenTags = aux.Forbidden
	if aux.Tag != "" {
		if p.RequiredTags == nil {
			p.RequiredTags = model.NewTagSet()
		}
		p.RequiredTags.Add(aux.Tag)
	}
	if p.Ref.ElementID == "" && p.Ref.Name == "" {
		return fmt.Errorf("image patch requires either element id or name")
	}
	return nil
}

// MarshalJSON сериализует патч в форму, которую читает UnmarshalJSON
func (p *ImagePatch) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		imagePatchJSON
	}{
		Type: "image",
		imagePatchJSON: imagePatchJSON{
			XY:        p.XY,
			ElementID: p.Ref.ElementID,
			Name:      p.Ref.Name,
			Required:  p.RequiredTags,
			Forbidden: p.ForbiddenTags,
		},
	})
}

// Apply разрешает ссылку и альфа-композитит изображение в точке xy
func (p *ImagePatch) Apply(ctx context.Context, c *Canvas, _ FormatArgs, _ model.TagSet) error {
	if c.Images == nil {
		return Domainf("image patches are not supported on this canvas")
	}
	img, err := c.Images.Resolve(ctx, p.Ref)
	if err != nil {
		return err
	}
	c.DC.DrawImage(img, p.XY[0], p.XY[1])
	return nil
}

// PatchSet упорядоченный набор патчей; применяет только видимые для текущих меток
type PatchSet struct {
	Patches []Patch
	TagGate
}

type patchSetJSON struct {
	Patches   []json.RawMessage `json:"patches"`
	Tag       string            `json:"tag,omitempty"`
	Required  model.TagSet      `json:"required_tags,omitempty"`
	Forbidden model.TagSet      `json:"forbidden_tags,omitempty"`
}

// UnmarshalJSON восстанавливает закрытое объединение патчей по полю type
func (s *PatchSet) UnmarshalJSON(data []byte) error {
	var aux patchSetJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.RequiredTags = aux.Required
	s.ForbiddenTags = aux.Forbidden
	if aux.Tag != "" {
		if s.RequiredTags == nil {
			s.RequiredTags = model.NewTagSet()
		}
		s.RequiredTags.Add(aux.Tag)
	}

	s.Patches = make([]Patch, 0, len(aux.Patches))
	for i, raw := range aux.Patches {
		var discriminator struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(raw, &discriminator); err != nil {
			return fmt.Errorf("patch %d: %w", i, err)
		}
		var patch Patch
		switch discriminator.Type {
		case "text":
			patch = &TextPatch{}
		case "image":
			patch = &ImagePatch{}
		case "set":
			patch = &PatchSet{}
		default:
			return fmt.Errorf("patch %d: unknown type %q", i, discriminator.Type)
		}
		if err := json.Unmarshal(raw, patch); err != nil {
			return fmt.Errorf("patch %d: %w", i, err)
		}
		s.Patches = append(s.Patches, patch)
	}
	return nil
}

// MarshalJSON сериализует набор вместе с дискриминатором
func (s *PatchSet) MarshalJSON() ([]byte, error) {
	patches := make([]json.RawMessage, 0, len(s.Patches))
	for i, p := range s.Patches {
		data, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("patch %d: %w", i, err)
		}
		patches = append(patches, data)
	}
	return json.Marshal(struct {
		Type string `json:"type"`
		patchSetJSON
	}{
		Type: "set",
		patchSetJSON: patchSetJSON{
			Patches:   patches,
			Required:  s.RequiredTags,
			Forbidden: s.ForbiddenTags,
		},
	})
}

// Apply применяет видимые патчи в порядке списка
func (s *PatchSet) Apply(ctx context.Context, c *Canvas, args FormatArgs, tags model.TagSet) error {
	for _, patch := range s.Patches {
		if !patch.Visible(tags) {
			continue
		}
		if err := patch.Apply(ctx, c, args, tags); err != nil {
			return err
		}
	}
	return nil
}
