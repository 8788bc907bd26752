// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package sprite

import (
	"testing"

	sprtest "github.com/kelindar/sprite/internal/testing"
)

func BenchmarkBuffer(b *testing.B) {
	const size = 512

	b.Run("Premultiply", func(b *testing.B) {
		buf := NewBuffer(1)
		if err := buf.Allocate(size, size); err != nil {
			b.Fatalf("failed to allocate: %v", err)
		}

		b.SetBytes(int64(len(buf.Pixels())))
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			buf.Premultiply(0, HalfAdditive)
		}
	})

	b.Run("ShrinkToHalfSize", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			buf := NewBuffer(4)
			if err := buf.Allocate(size, size); err != nil {
				b.Fatalf("failed to allocate: %v", err)
			}
			if err := buf.ShrinkToHalfSize(); err != nil {
				b.Fatalf("failed to shrink: %v", err)
			}
		}
	})

	b.Run("LoadPNG", func(b *testing.B) {
		path := sprtest.Write(b, b.TempDir(), "bench.png", sprtest.Pattern(size, size, false))
		loader := NewLoader()
		buf := NewBuffer(1)

		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if err := loader.Load(buf, NewSource(path, Alpha), 0); err != nil {
				b.Fatalf("failed to load: %v", err)
			}
		}
	})
}
