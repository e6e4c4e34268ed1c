package mcfit

import "math"

// PadPlane maps continuous pad-plane coordinates to discrete pad numbers and
// back to pad centers. Lookups return NoPad for points outside the plane.
type PadPlane interface {
	PadNumberFromCoordinates(x, y float64) uint16
	PadCenter(pad uint16) (x, y float64)
}

// RectPadPlane is a uniform rectangular pad grid. It backs the no-DB mode
// and the test suite; the experiment plane comes from the run database.
type RectPadPlane struct {
	X0, Y0 float64 // lower-left corner, m
	Pitch  float64 // pad pitch, m
	Cols   int
	Rows   int
}

func (p *RectPadPlane) PadNumberFromCoordinates(x, y float64) uint16 {
	col := int(math.Floor((x - p.X0) / p.Pitch))
	row := int(math.Floor((y - p.Y0) / p.Pitch))
	if col < 0 || col >= p.Cols || row < 0 || row >= p.Rows {
		return NoPad
	}
	pad := row*p.Cols + col
	if pad >= NumPads {
		return NoPad
	}
	return uint16(pad)
}

func (p *RectPadPlane) PadCenter(pad uint16) (float64, float64) {
	col := int(pad) % p.Cols
	row := int(pad) / p.Cols
	x := p.X0 + (float64(col)+0.5)*p.Pitch
	y := p.Y0 + (float64(row)+0.5)*p.Pitch
	return x, y
}

// PadMap is a pad plane built from per-pad center coordinates, as read from
// the run database. Coordinate lookups go through a regular-grid spatial
// hash over the centers; a point belongs to the nearest center within half a
// pitch in both axes.
type PadMap struct {
	pitch   float64
	centers map[uint16][2]float64
	cells   map[int64][]uint16
}

func NewPadMap(pitch float64) *PadMap {
	return &PadMap{
		pitch:   pitch,
		centers: make(map[uint16][2]float64),
		cells:   make(map[int64][]uint16),
	}
}

func (m *PadMap) Insert(pad uint16, x, y float64) {
	m.centers[pad] = [2]float64{x, y}
	id := m.cellID(x, y)
	m.cells[id] = append(m.cells[id], pad)
}

func (m *PadMap) NumPads() int {
	return len(m.centers)
}

// cellID pairs the signed cell coordinates into one key using zigzag
// encoding and Szudzik's pairing function.
func (m *PadMap) cellID(x, y float64) int64 {
	cx := int64(math.Floor(x / m.pitch))
	cy := int64(math.Floor(y / m.pitch))
	return pairCells(cx, cy)
}

func pairCells(cx, cy int64) int64 {
	var a, b int64
	if cx >= 0 {
		a = 2 * cx
	} else {
		a = -2*cx - 1
	}
	if cy >= 0 {
		b = 2 * cy
	} else {
		b = -2*cy - 1
	}
	if a >= b {
		return a*a + a + b
	}
	return a + b*b
}

func (m *PadMap) PadNumberFromCoordinates(x, y float64) uint16 {
	cx := int64(math.Floor(x / m.pitch))
	cy := int64(math.Floor(y / m.pitch))

	best := NoPad
	bestDist := math.Inf(1)
	half := m.pitch / 2
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for _, pad := range m.cells[pairCells(cx+dx, cy+dy)] {
				c := m.centers[pad]
				ddx := math.Abs(x - c[0])
				ddy := math.Abs(y - c[1])
				if ddx > half || ddy > half {
					continue
				}
				dist := ddx*ddx + ddy*ddy
				if dist < bestDist {
					bestDist = dist
					best = pad
				}
			}
		}
	}
	return best
}

func (m *PadMap) PadCenter(pad uint16) (float64, float64) {
	c, ok := m.centers[pad]
	if !ok {
		return math.NaN(), math.NaN()
	}
	return c[0], c[1]
}
