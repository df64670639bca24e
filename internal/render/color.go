package render

import (
	"fmt"
	"image/color"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor разбирает цвет в виде "#RGB", "#RRGGBB", "#RRGGBBAA" или имени CSS-цвета
func ParseColor(s string) (color.Color, error) {
	if strings.HasPrefix(s, "#") {
		return parseHexColor(s)
	}
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("unknown color %q", s)
}

func parseHexColor(s string) (color.Color, error) {
	hex := s[1:]
	var c color.NRGBA
	c.A = 0xff

	var err error
	switch len(hex) {
	case 3:
		_, err = fmt.Sscanf(hex, "%1x%1x%1x", &c.R, &c.G, &c.B)
		c.R *= 17
		c.G *= 17
		c.B *= 17
	case 6:
		_, err = fmt.Sscanf(hex, "%02x%02x%02x", &c.R, &c.G, &c.B)
	case 8:
		_, err = fmt.Sscanf(hex, "%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A)
	default:
		return nil, fmt.Errorf("malformed hex color %q", s)
	}
	if err != nil {
		return nil, fmt.Errorf("malformed hex color %q", s)
	}
	return c, nil
}
