//go:build llama

package inproc

// cgo link directives for the llama engine.
// - rpath $ORIGIN lets the loader find libllama.so next to the binary (./bin).
// - -L${SRCDIR}/../../bin points the linker at the same directory.
/*
#cgo LDFLAGS: -Wl,-rpath,'$ORIGIN' -L${SRCDIR}/../../bin -lllama
*/
import "C"
