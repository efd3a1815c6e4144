package dnload

// Host is the layout of the running process image.
func Host() Layout {
	return FreeBSD32()
}
