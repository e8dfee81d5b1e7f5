package render

import "github.com/lixenwraith/layerterm/terminal"

// Surface receives one full frame per dirty cycle
// Cells are row-major: cells[y*width + x]
type Surface interface {
	Size() (width, height int)
	Present(cells []terminal.Cell, width, height int) error
}

// resizer is implemented by surfaces that track their own dimensions
type resizer interface {
	Resize(width, height int) error
}

var (
	_ Surface = (*terminal.StreamSurface)(nil)
	_ Surface = (*terminal.ScreenSurface)(nil)
	_ resizer = (*terminal.StreamSurface)(nil)
)
