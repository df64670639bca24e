package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/opentype"
)

// Встроенные начертания; имя шрифта из шаблона нормализуется
// (нижний регистр, без расширения .ttf) перед поиском в этой таблице.
var builtinFonts = map[string][]byte{
	"":           goregular.TTF,
	"regular":    goregular.TTF,
	"bold":       gobold.TTF,
	"italic":     goitalic.TTF,
	"bolditalic": gobolditalic.TTF,
	"medium":     gomedium.TTF,
	"mono":       gomono.TTF,
	"smallcaps":  gosmallcaps.TTF,
}

type faceKey struct {
	name string
	size int
}

// fontCache кеширует разобранные шрифты и готовые face нужного размера
type fontCache struct {
	mu    sync.Mutex
	dir   string
	fonts map[string]*opentype.Font
	faces map[faceKey]font.Face
}

var fonts = &fontCache{
	fonts: make(map[string]*opentype.Font),
	faces: make(map[faceKey]font.Face),
}

// SetFontsDir задаёт каталог с дополнительными TTF-шрифтами.
// Вызывается один раз при старте процесса, до загрузки шаблонов.
func SetFontsDir(dir string) {
	fonts.mu.Lock()
	defer fonts.mu.Unlock()
	fonts.dir = dir
}

// LoadFontFace возвращает face для имени и размера из шаблона.
// Ошибка означает сломанный шаблон и возвращается при его загрузке,
// а не посреди рендера.
func LoadFontFace(name string, size int) (font.Face, error) {
	return fonts.face(name, size)
}

func (c *fontCache) face(name string, size int) (font.Face, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := faceKey{name: normalizeFontName(name), size: size}
	if face, ok := c.faces[key]; ok {
		return face, nil
	}

	parsed, err := c.font(name)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face for font %q: %w", name, err)
	}
	c.faces[key] = face
	return face, nil
}

func (c *fontCache) font(name string) (*opentype.Font, error) {
	normalized := normalizeFontName(name)
	if parsed, ok := c.fonts[normalized]; ok {
		return parsed, nil
	}

	data, ok := builtinFonts[normalized]
	if !ok {
		if c.dir == "" {
			return nil, fmt.Errorf("unknown font %q", name)
		}
		var err error
		data, err = os.ReadFile(filepath.Join(c.dir, filepath.Base(name)))
		if err != nil {
			return nil, fmt.Errorf("load font %q: %w", name, err)
		}
	}

	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %q: %w", name, err)
	}
	c.fonts[normalized] = parsed
	return parsed, nil
}

func normalizeFontName(name string) string {
	name = strings.ToLower(name)
	name = strings.TrimSuffix(name, ".ttf")
	name = strings.TrimSuffix(name, ".otf")
	return name
}
