package assemblyscript_test

import (
	"fmt"
	"io"

	"github.com/ascendlang/ascend/assemblyscript"
)

// noopHostEnv is a HostEnv with no linear memory and discarded output,
// enough to demonstrate wiring without a live module instance.
type noopHostEnv struct{}

func (noopHostEnv) ReadMemory(uint32, uint32) ([]byte, bool) { return nil, false }
func (noopHostEnv) Stdout() io.Writer                        { return io.Discard }
func (noopHostEnv) Stderr() io.Writer                        { return io.Discard }
func (noopHostEnv) RandSource() io.Reader                    { return nil }
func (noopHostEnv) Exit(uint32)                              {}

// This shows how to obtain AssemblyScript's special import functions,
// ready to register against a concrete runtime's "env" namespace.
func Example_exports() {
	fns := assemblyscript.Exports(noopHostEnv{}, assemblyscript.WithAbortMessageDisabled())
	for _, fn := range fns {
		fmt.Println(fn.Name)
	}
	// Output:
	// abort
	// trace
	// seed
}
