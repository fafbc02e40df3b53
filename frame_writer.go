package opentui

import (
	"bytes"
	"io"
)

// writeFullFrame writes every non-continuation cell of buffer to out,
// wrapped in a synchronized-output block when the terminal supports it.
// Shared by Renderer.PresentForce and the render goroutine behind
// ThreadedRenderer.
func writeFullFrame(out io.Writer, terminal *Terminal, buffer *OptimizedBuffer, graphemePool *GraphemePool, linkPool *LinkPool, width, height uint32) error {
	caps := terminal.Capabilities()
	if caps.SyncOutput {
		if err := terminal.BeginSync(); err != nil {
			return err
		}
	}

	var scratch bytes.Buffer
	writer := NewAnsiWriter(&scratch)

	for y := uint32(0); y < height; y++ {
		writer.MoveCursor(y, 0)
		for x := uint32(0); x < width; x++ {
			cell, ok := buffer.Get(x, y)
			if !ok || cell.IsContinuation() {
				continue
			}
			url, _ := linkPool.Get(cell.Attributes.LinkID())
			writer.WriteCellWithPool(cell, graphemePool, url)
		}
	}

	writer.Reset()
	if err := writer.Flush(); err != nil {
		return err
	}

	if _, err := out.Write(scratch.Bytes()); err != nil {
		return err
	}
	if err := terminal.Flush(); err != nil {
		return err
	}

	if caps.SyncOutput {
		if err := terminal.EndSync(); err != nil {
			return err
		}
	}
	return terminal.Flush()
}

// writeDiffFrame writes only the cells covered by diff's dirty regions.
func writeDiffFrame(out io.Writer, terminal *Terminal, buffer *OptimizedBuffer, graphemePool *GraphemePool, linkPool *LinkPool, diff BufferDiff) error {
	if len(diff.DirtyRegions) == 0 {
		return nil
	}
	caps := terminal.Capabilities()
	if caps.SyncOutput {
		if err := terminal.BeginSync(); err != nil {
			return err
		}
	}

	var scratch bytes.Buffer
	writer := NewAnsiWriter(&scratch)

	for _, region := range diff.DirtyRegions {
		writer.MoveCursor(region.Y, region.X)
		for i := uint32(0); i < region.Width; i++ {
			x, y := region.X+i, region.Y
			cell, ok := buffer.Get(x, y)
			if !ok || cell.IsContinuation() {
				continue
			}
			url, _ := linkPool.Get(cell.Attributes.LinkID())
			writer.WriteCellWithPool(cell, graphemePool, url)
		}
	}

	writer.Reset()
	if err := writer.Flush(); err != nil {
		return err
	}

	if scratch.Len() > 0 {
		if _, err := out.Write(scratch.Bytes()); err != nil {
			return err
		}
	}

	if caps.SyncOutput {
		if err := terminal.EndSync(); err != nil {
			return err
		}
	}
	return terminal.Flush()
}
