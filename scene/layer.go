package scene

import (
	"fmt"
	"strings"
)

// Layer is a fixed z-order bucket; lower values paint first
type Layer uint8

const (
	Background Layer = iota
	Middleground
	Foreground
	UI
	LayerCount
)

// PaintOrder lists layers back to front
var PaintOrder = [LayerCount]Layer{Background, Middleground, Foreground, UI}

var layerNames = [LayerCount]string{"background", "middleground", "foreground", "ui"}

func (l Layer) String() string {
	if l < LayerCount {
		return layerNames[l]
	}
	return fmt.Sprintf("layer(%d)", uint8(l))
}

// Valid reports whether l names one of the four layers
func (l Layer) Valid() bool {
	return l < LayerCount
}

// ParseLayer maps a layer name to its value
func ParseLayer(s string) (Layer, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range layerNames {
		if s == name {
			return Layer(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidLayer, s)
}
