package compute

import "fmt"

// Backend dispatches independent work items. fn must only touch state owned
// by its [start, end) range; Dispatch provides no other synchronisation.
type Backend interface {
	Name() string
	Available() bool
	Workers() int
	Dispatch(n int, fn func(start, end int))
	Cleanup()
}

// AutoSelectBackend picks the CPU backend with the requested worker count,
// falling back to serial dispatch for a single worker. workers <= 0 means
// one worker per CPU.
func AutoSelectBackend(workers int) Backend {
	cpu := NewCPUBackend(workers)
	if cpu.Workers() <= 1 {
		return NewSerialBackend()
	}
	return cpu
}

// ByName resolves a backend by its registry name.
func ByName(name string, workers int) (Backend, error) {
	switch name {
	case "", "auto":
		return AutoSelectBackend(workers), nil
	case "cpu":
		return NewCPUBackend(workers), nil
	case "serial":
		return NewSerialBackend(), nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", name)
	}
}

type SerialBackend struct{}

func NewSerialBackend() *SerialBackend { return &SerialBackend{} }

func (SerialBackend) Name() string    { return "serial" }
func (SerialBackend) Available() bool { return true }
func (SerialBackend) Workers() int    { return 1 }
func (SerialBackend) Cleanup()        {}

func (SerialBackend) Dispatch(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	fn(0, n)
}
