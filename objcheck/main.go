// objcheck loads OBJ files the same way the renderer does and reports
// what it found.
//
//	objcheck [-lenient] [-v] file.obj...
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/loov/hrtime"

	"github.com/adinfit/solarsystem/obj"
)

var (
	lenient = flag.Bool("lenient", false, "skip malformed records instead of failing")
	verbose = flag.Bool("v", false, "print every skipped record")
)

func main() {
	log.SetFlags(0)
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: objcheck [-lenient] [-v] file.obj...")
		os.Exit(2)
	}

	loader := &obj.Loader{}
	if *lenient {
		loader.Policy = obj.Lenient
	}

	failed := 0
	for _, path := range flag.Args() {
		if err := check(os.Stdout, loader, path, *verbose); err != nil {
			log.Println(err)
			failed++
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func check(w io.Writer, loader *obj.Loader, path string, verbose bool) error {
	start := hrtime.Now()
	mesh, err := loader.Load(path)
	if err != nil {
		return err
	}
	elapsed := hrtime.Now() - start

	min, max := mesh.Bounds()
	fmt.Fprintf(w, "%s: %d triangles, bounds %v..%v, %d skipped, %v\n",
		path, mesh.Triangles(), min, max, len(mesh.Skipped), elapsed)

	if verbose {
		for _, skipped := range mesh.Skipped {
			fmt.Fprintf(w, "\t%v\n", skipped)
		}
	}
	return nil
}
