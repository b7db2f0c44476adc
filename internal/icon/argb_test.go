package icon

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestRGBAToARGB(t *testing.T) {
	rgba := []byte{1, 2, 3, 4, 10, 20, 30, 40}
	expected := []byte{4, 1, 2, 3, 40, 10, 20, 30}

	if argb := RGBAToARGB(rgba); !bytes.Equal(argb, expected) {
		t.Errorf("RGBAToARGB(%v) = %v, want %v", rgba, argb, expected)
	}
}

func TestARGBRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for _, size := range []int{0, 4, 64, 4096} {
		rgba := make([]byte, size)
		rng.Read(rgba)

		argb := RGBAToARGB(rgba)
		if len(argb) != len(rgba) {
			t.Fatalf("len(RGBAToARGB()) = %d, want %d", len(argb), len(rgba))
		}

		if back := ARGBToRGBA(argb); !bytes.Equal(back, rgba) {
			t.Errorf("round trip of %d bytes changed the buffer", size)
		}
	}
}

func TestRGBAToARGBMisaligned(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("RGBAToARGB() of misaligned buffer did not panic")
		}
	}()

	RGBAToARGB([]byte{1, 2, 3})
}
