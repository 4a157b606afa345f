//go:build !linux

package motion

func openUinput(Options) (Sink, error) {
	return nil, ErrUnsupported
}
