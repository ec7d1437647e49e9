package util

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

// Named axes in the host's left-handed, Y-up space.
var namedAxes = map[string]mgl64.Vec3{
	"up":      {0, 1, 0},
	"down":    {0, -1, 0},
	"right":   {1, 0, 0},
	"left":    {-1, 0, 0},
	"forward": {0, 0, 1},
	"back":    {0, 0, -1},
}

// ParseAxis reads an axis either by name ("up", "right", ...) or as three
// comma separated components ("0,1,0").
func ParseAxis(s string) (mgl64.Vec3, error) {
	s = strings.TrimSpace(s)
	if v, ok := namedAxes[strings.ToLower(s)]; ok {
		return v, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("axis %q: want a name or x,y,z", s)
	}

	var v mgl64.Vec3
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return mgl64.Vec3{}, fmt.Errorf("axis %q: %w", s, err)
		}
		v[i] = f
	}
	return v, nil
}

// ParseColour reads a "#rrggbb" colour.
func ParseColour(s string) (colorful.Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("colour %q: %w", s, err)
	}
	return c, nil
}
