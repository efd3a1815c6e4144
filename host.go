//go:build (linux || freebsd) && (amd64 || 386)

package dnload

// NewHost create a Resolver over the live process image. Only
// meaningful in an executable linked at the host layout's fixed base.
func NewHost() Resolver {
	return New(RawMemory{}, Host())
}
