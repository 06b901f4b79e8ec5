/*
Package lowpoly is an image processing library which converts images to low poly art.

A jittered grid of points is scattered over the image, triangulated
incrementally, legalized toward a Delaunay triangulation by edge flips, and
every triangle is painted with the average color of the pixels it covers.

The package provides a command line utility supporting various customization options.
Check the supported commands by typing:

	$ lowpoly --help

The triangulation engine can be used on its own:

	grid, err := lowpoly.NewGrid(16, 12, 0.8, rand.New(rand.NewSource(42)))
	if err != nil {
		return err
	}
	mesh, _, err := lowpoly.Build(grid)
	if err != nil {
		return err
	}
	stats := new(lowpoly.Legalizer).Legalize(mesh)
	colors, _, err := lowpoly.Colorize(mesh, buf)

Using Go interfaces the result can be rendered either as raster or vector type.

Example to generate a triangulated image and output the result as PNG:

	package main

	import (
		"fmt"
		"os"

		"github.com/esimov/lowpoly"
	)

	func main() {
		p := &lowpoly.Processor{
			XCount: 32,
			YCount: 24,
			Jitter: 0.8,
		}

		img := &lowpoly.Image{Processor: *p}
		if _, err := p.Process(src, os.Stdout, img); err != nil {
			fmt.Printf("Error on triangulation process: %s", err.Error())
		}
	}

Example to generate a triangulated image and output the result as SVG:

	svg := &lowpoly.SVG{
		Title:       "Low poly image",
		Description: "Convert images to computer generated art using delaunay triangulation.",
		Processor:   *p,
	}
	if _, err := p.Process(src, out, svg); err != nil {
		fmt.Printf("Error on triangulation process: %s", err.Error())
	}
*/
package lowpoly
