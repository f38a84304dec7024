package graphics

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// WritePPM writes a frame as a plain-text PPM image.
func WritePPM(w io.Writer, frame *Frame) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P3\n%d %d\n255\n", frame.Width, frame.Height)
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			pixel := frame.Pixels[y*frame.Width+x]
			fmt.Fprintf(bw, "%d %d %d ", pixel>>16&0xFF, pixel>>8&0xFF, pixel&0xFF)
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

// WritePPMFile writes a frame as a PPM image to the given path.
func WritePPMFile(path string, frame *Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating frame dump %s: %w", path, err)
	}
	if err := WritePPM(file, frame); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
