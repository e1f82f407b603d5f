package geometry

// MeasurePreview sizes the preview view inside a surface of width x height so
// the chosen preview resolution keeps its aspect ratio. Portrait surfaces
// swap the (landscape) preview dimensions first.
func MeasurePreview(preview Resolution, width, height int) (int, int) {
	if preview.Width <= 0 || preview.Height <= 0 || width <= 0 || height <= 0 {
		return width, height
	}
	pw, ph := preview.Width, preview.Height
	if width < height {
		pw, ph = ph, pw
	}
	aspect := float64(pw) / float64(ph)

	measuredW := roundHalfUp(float64(height) * aspect)
	if measuredW > width {
		return width, roundHalfUp(float64(width) / aspect)
	}
	return measuredW, height
}

// CenterIn centres a child of childWidth x childHeight inside the parent
// rectangle (left, top, right, bottom) and returns the child's bounds relative
// to the parent.
func CenterIn(parent Rect, childWidth, childHeight int) Rect {
	left := roundHalfUp(float64(parent.Width()-childWidth) * 0.5)
	top := roundHalfUp(float64(parent.Height()-childHeight) * 0.5)
	return Rect{
		Left:   left,
		Top:    top,
		Right:  left + childWidth,
		Bottom: top + childHeight,
	}
}
