package lowpoly

import (
	"bytes"
	"image"
	_ "image/png"
	"os"
	"testing"
)

func BenchmarkTriangulate(b *testing.B) {
	buf, err := os.ReadFile("./testdata/sample.png")
	if err != nil {
		b.Skipf("Failed opening test file: %v", err)
	}
	img, _, err := image.Decode(bytes.NewBuffer(buf))
	if err != nil {
		b.Skipf("Failed decoding image: %v", err)
	}
	proc := Processor{
		XCount:     DefaultXCount,
		YCount:     DefaultYCount,
		Jitter:     DefaultJitter,
		Seed:       1,
		SampleSize: 512,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err = proc.Triangulate(img); err != nil {
			b.Fatalf("Failed triangulating benchmark image: %v", err)
		}
	}
}

func BenchmarkLegalize(b *testing.B) {
	g, err := NewGrid(40, 30, DefaultJitter, nil)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m, _, err := Build(g)
		if err != nil {
			b.Fatal(err)
		}
		new(Legalizer).Legalize(m)
	}
}
