package visualization

import "math"

// normalizePositions scales positions to fit within bounds
func normalizePositions(positions []Position, width, height, padding float64) []Position {
	if len(positions) == 0 {
		return positions
	}

	// Find bounds
	minX, maxX := math.MaxFloat64, -math.MaxFloat64
	minY, maxY := math.MaxFloat64, -math.MaxFloat64

	for _, pos := range positions {
		minX = math.Min(minX, pos.X)
		maxX = math.Max(maxX, pos.X)
		minY = math.Min(minY, pos.Y)
		maxY = math.Max(maxY, pos.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY

	// Scale to fit bounds with padding
	targetWidth := width - 2*padding
	targetHeight := height - 2*padding

	normalized := make([]Position, len(positions))
	for i, pos := range positions {
		x, y := width/2, height/2
		if rangeX >= 1e-9 {
			x = padding + ((pos.X-minX)/rangeX)*targetWidth
		}
		if rangeY >= 1e-9 {
			y = padding + ((pos.Y-minY)/rangeY)*targetHeight
		}
		normalized[i] = Position{X: x, Y: y}
	}

	return normalized
}

// allFinite reports whether every coordinate is a finite number.
func allFinite(positions []Position) bool {
	for _, p := range positions {
		if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			return false
		}
	}
	return true
}

// rescale centers positions on the origin and scales them so the largest
// absolute coordinate equals scale.
func rescale(positions []Position, scale float64) {
	if len(positions) == 0 {
		return
	}

	var cx, cy float64
	for _, p := range positions {
		cx += p.X
		cy += p.Y
	}
	cx /= float64(len(positions))
	cy /= float64(len(positions))

	lim := 0.0
	for i := range positions {
		positions[i].X -= cx
		positions[i].Y -= cy
		lim = math.Max(lim, math.Max(math.Abs(positions[i].X), math.Abs(positions[i].Y)))
	}
	if lim == 0 {
		return
	}
	for i := range positions {
		positions[i].X *= scale / lim
		positions[i].Y *= scale / lim
	}
}

func bounds(positions []Position) (minX, maxX, minY, maxY float64) {
	minX, maxX = math.MaxFloat64, -math.MaxFloat64
	minY, maxY = math.MaxFloat64, -math.MaxFloat64
	for _, p := range positions {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return minX, maxX, minY, maxY
}
