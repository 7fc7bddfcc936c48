//go:build !windows

package console

// OnInterrupt is a no-op outside Windows; os.Interrupt reaches the signal
// handler there even with SDL running.
func OnInterrupt(fn func()) (rearm func()) {
	return func() {}
}
