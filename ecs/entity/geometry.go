package entity

// Entities store their logical position as the bottom-left corner of the
// bounding box. Bodies are positioned by their center.

// CenterOf maps a bottom-left corner to a body center.
func CenterOf(x, y, width, height float64) (float64, float64) {
	return x + width/2, y + height/2
}

func CornerOf(cx, cy, width, height float64) (float64, float64) {
	return cx - width/2, cy - height/2
}
