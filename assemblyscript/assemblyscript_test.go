package assemblyscript

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"testing/iotest"
	"unicode/utf16"

	"github.com/stretchr/testify/require"
)

// fakeHostEnv is a minimal HostEnv backed by an in-process byte slice,
// standing in for a real wasmtime-go instance in these unit tests.
type fakeHostEnv struct {
	mem            []byte
	stdout, stderr bytes.Buffer
	rand           io.Reader
	exitCode       uint32
	exited         bool
}

func newFakeHostEnv(memSize int) *fakeHostEnv {
	return &fakeHostEnv{mem: make([]byte, memSize)}
}

func (f *fakeHostEnv) ReadMemory(offset, byteCount uint32) ([]byte, bool) {
	start, end := int64(offset), int64(offset)+int64(byteCount)
	if start < 0 || end > int64(len(f.mem)) {
		return nil, false
	}
	return f.mem[start:end], true
}

func (f *fakeHostEnv) Stdout() io.Writer     { return &f.stdout }
func (f *fakeHostEnv) Stderr() io.Writer     { return &f.stderr }
func (f *fakeHostEnv) RandSource() io.Reader { return f.rand }

// exitSignal is panicked by fakeHostEnv.Exit, mirroring HostEnv's contract
// that Exit does not return normally.
type exitSignal struct{ code uint32 }

func (f *fakeHostEnv) Exit(code uint32) {
	f.exited = true
	f.exitCode = code
	panic(exitSignal{code})
}

func (f *fakeHostEnv) writeUint32(offset uint32, v uint32) {
	f.mem[offset] = byte(v)
	f.mem[offset+1] = byte(v >> 8)
	f.mem[offset+2] = byte(v >> 16)
	f.mem[offset+3] = byte(v >> 24)
}

func (f *fakeHostEnv) writeString(offset uint32, utf16Bytes []byte) {
	f.writeUint32(offset-4, uint32(len(utf16Bytes)))
	copy(f.mem[offset:], utf16Bytes)
}

func encodeUTF16(s string) []byte {
	runes := utf16.Encode([]rune(s))
	b := make([]byte, len(runes)*2)
	for i, r := range runes {
		b[i*2] = byte(r)
		b[i*2+1] = byte(r >> 8)
	}
	return b
}

func requireExit(t *testing.T, fn func()) uint32 {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected Exit to panic")
		_, ok := r.(exitSignal)
		require.True(t, ok, "expected an exitSignal, got %#v", r)
	}()
	fn()
	return 0
}

func TestAbort(t *testing.T) {
	tests := []struct {
		name     string
		opts     []Option
		expected string
	}{
		{name: "enabled", expected: "message at filename:1:2\n"},
		{name: "disabled", opts: []Option{WithAbortMessageDisabled()}, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newFakeHostEnv(64)
			env.writeString(4, encodeUTF16("message"))
			env.writeString(22, encodeUTF16("filename"))

			fns := findFunc(t, Exports(env, tt.opts...), functionAbort)
			abortFn := fns.Func.(func(message, fileName, lineNumber, columnNumber uint32))

			requireExit(t, func() { abortFn(4, 22, 1, 2) })

			require.True(t, env.exited)
			require.Equal(t, uint32(255), env.exitCode)
			require.Equal(t, tt.expected, env.stderr.String())
		})
	}
}

func TestAbort_BadStrings(t *testing.T) {
	tests := []struct {
		name                     string
		messageOK, fileNameOK bool
	}{
		{name: "bad message", messageOK: false, fileNameOK: true},
		{name: "bad filename", messageOK: true, fileNameOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newFakeHostEnv(64)
			if tt.messageOK {
				env.writeString(4, encodeUTF16("message"))
			} else {
				env.writeUint32(0, 5) // odd byte count: invalid UTF-16
			}
			if tt.fileNameOK {
				env.writeString(22, encodeUTF16("filename"))
			} else {
				env.writeUint32(18, 5)
			}

			fns := findFunc(t, Exports(env), functionAbort)
			abortFn := fns.Func.(func(message, fileName, lineNumber, columnNumber uint32))

			requireExit(t, func() { abortFn(4, 22, 1, 2) })

			require.True(t, env.exited)
			require.Equal(t, uint32(255), env.exitCode)
			require.Equal(t, "", env.stderr.String())
		})
	}
}

func TestSeed(t *testing.T) {
	b := []byte{0, 1, 2, 3, 4, 5, 6, 7}
	env := newFakeHostEnv(0)
	env.rand = bytes.NewReader(b)

	fns := findFunc(t, Exports(env), functionSeed)
	seedFn := fns.Func.(func() float64)

	require.Equal(t, 7.949928895127363e-275, seedFn())
}

func TestSeed_error(t *testing.T) {
	tests := []struct {
		name   string
		source io.Reader
	}{
		{name: "not 8 bytes", source: bytes.NewReader([]byte{0, 1})},
		{name: "error reading", source: iotest.ErrReader(errors.New("ice cream"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newFakeHostEnv(0)
			env.rand = tt.source

			fns := findFunc(t, Exports(env), functionSeed)
			seedFn := fns.Func.(func() float64)

			require.Panics(t, func() { seedFn() })
		})
	}
}

func TestTrace(t *testing.T) {
	tests := []struct {
		name           string
		opts           []Option
		nArgs          uint32
		args           [5]float64
		expectedStdout string
		expectedStderr string
	}{
		{name: "disabled", nArgs: 0},
		{
			name:           "to stderr",
			opts:           []Option{WithTraceToStderr()},
			nArgs:          0,
			expectedStderr: "trace: hello\n",
		},
		{
			name:           "to stdout, no args",
			opts:           []Option{WithTraceToStdout()},
			nArgs:          0,
			expectedStdout: "trace: hello\n",
		},
		{
			name:           "to stdout, one arg",
			opts:           []Option{WithTraceToStdout()},
			nArgs:          1,
			args:           [5]float64{1},
			expectedStdout: "trace: hello 1\n",
		},
		{
			name:           "to stdout, five args",
			opts:           []Option{WithTraceToStdout()},
			nArgs:          5,
			args:           [5]float64{1, 2, 3.3, 4.4, 5},
			expectedStdout: "trace: hello 1,2,3.3,4.4,5\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newFakeHostEnv(64)
			env.writeString(4, encodeUTF16("hello"))

			fns := findFunc(t, Exports(env, tt.opts...), functionTrace)
			traceFn := fns.Func.(func(message, nArgs uint32, arg0, arg1, arg2, arg3, arg4 float64))

			traceFn(4, tt.nArgs, tt.args[0], tt.args[1], tt.args[2], tt.args[3], tt.args[4])
			require.Equal(t, tt.expectedStdout, env.stdout.String())
			require.Equal(t, tt.expectedStderr, env.stderr.String())
		})
	}
}

func Test_readAssemblyScriptString(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*fakeHostEnv)
		offset     uint32
		expected   string
		expectedOk bool
	}{
		{
			name:       "success",
			setup:      func(e *fakeHostEnv) { e.writeString(4, encodeUTF16("hello")) },
			offset:     4,
			expected:   "hello",
			expectedOk: true,
		},
		{
			name:   "can't read size",
			setup:  func(e *fakeHostEnv) {},
			offset: 0, // attempts to read the length prefix from offset -4
		},
		{
			name: "odd size",
			setup: func(e *fakeHostEnv) {
				e.writeUint32(0, 9)
				copy(e.mem[4:], encodeUTF16("hello"))
			},
			offset: 4,
		},
		{
			name: "can't read string",
			setup: func(e *fakeHostEnv) {
				e.writeUint32(0, 10_000_000)
				copy(e.mem[4:], encodeUTF16("hello"))
			},
			offset: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newFakeHostEnv(64)
			tt.setup(env)

			s, ok := readAssemblyScriptString(env, tt.offset)
			require.Equal(t, tt.expectedOk, ok)
			require.Equal(t, tt.expected, s)
		})
	}
}

func findFunc(t *testing.T, fns []HostFunc, name string) HostFunc {
	t.Helper()
	for _, fn := range fns {
		if fn.Name == name {
			return fn
		}
	}
	t.Fatalf("no exported function named %q", name)
	return HostFunc{}
}
