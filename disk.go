package leaves

// Disk is one opaque filled circle of a dead-leaves frame.
type Disk struct {
	// X, Y is the center in pixel coordinates, origin at the top-left.
	X, Y float64

	// Radius in pixels.
	Radius float64

	Color Color
}

// Covers reports whether the pixel (px, py) belongs to the disk. A pixel is
// covered when its center (px+0.5, py+0.5) lies inside or on the circle.
func (d Disk) Covers(px, py int) bool {
	dx := float64(px) + 0.5 - d.X
	dy := float64(py) + 0.5 - d.Y
	return dx*dx+dy*dy <= d.Radius*d.Radius
}

// Batch is an ordered disk sequence. Index order is painting order: a disk
// hides every earlier disk it overlaps.
type Batch []Disk

// Top returns the index of the last disk covering (px, py), or -1.
func (b Batch) Top(px, py int) int {
	for i := len(b) - 1; i >= 0; i-- {
		if b[i].Covers(px, py) {
			return i
		}
	}
	return -1
}
