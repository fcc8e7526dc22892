package tracer

import (
	"fmt"
	"sort"
)

// Default block dimensions.
const (
	DefaultBlockW uint32 = 64
	DefaultBlockH uint32 = 64
)

// A rectangular frame region. Left and Top are inclusive while Right and
// Bottom are exclusive.
type Block struct {
	Left   uint32
	Top    uint32
	Right  uint32
	Bottom uint32
}

// Get the block width in pixels.
func (b Block) Width() uint32 {
	return b.Right - b.Left
}

// Get the block height in pixels.
func (b Block) Height() uint32 {
	return b.Bottom - b.Top
}

// Get the number of pixels covered by the block.
func (b Block) Pixels() uint64 {
	return uint64(b.Width()) * uint64(b.Height())
}

func (b Block) String() string {
	return fmt.Sprintf("[%d, %d) x [%d, %d)", b.Left, b.Right, b.Top, b.Bottom)
}

// The BlockScheduler interface is implemented by all block scheduling algorithms.
type BlockScheduler interface {
	// Split a frame into blocks and return them in the order they should
	// be rendered. Every frame pixel belongs to exactly one block.
	Schedule(frameW, frameH uint32) []Block
}

// Splits the frame into a grid of fixed-size blocks and renders them in
// row-major order.
type rowMajorScheduler struct {
	blockW uint32
	blockH uint32
}

// Create a scheduler that emits blocks in row-major order. Zero block
// dimensions are replaced by the defaults.
func NewRowMajorScheduler(blockW, blockH uint32) BlockScheduler {
	if blockW == 0 {
		blockW = DefaultBlockW
	}
	if blockH == 0 {
		blockH = DefaultBlockH
	}
	return &rowMajorScheduler{
		blockW: blockW,
		blockH: blockH,
	}
}

func (sch *rowMajorScheduler) Schedule(frameW, frameH uint32) []Block {
	return splitFrame(frameW, frameH, sch.blockW, sch.blockH)
}

// The center-out scheduler orders blocks by their distance to the frame
// center so that previews fill in from the middle of the image.
type centerOutScheduler struct {
	blockW uint32
	blockH uint32
}

// Create a center-out scheduler. Zero block dimensions are replaced by the
// defaults.
func NewCenterOutScheduler(blockW, blockH uint32) BlockScheduler {
	if blockW == 0 {
		blockW = DefaultBlockW
	}
	if blockH == 0 {
		blockH = DefaultBlockH
	}
	return &centerOutScheduler{
		blockW: blockW,
		blockH: blockH,
	}
}

// Split the frame into blocks and sort them by ascending squared distance
// between block center and frame center. Blocks at the same distance keep
// their row-major order.
func (sch *centerOutScheduler) Schedule(frameW, frameH uint32) []Block {
	blocks := splitFrame(frameW, frameH, sch.blockW, sch.blockH)

	// Work in doubled coordinates so centers stay integral
	cx, cy := int64(frameW), int64(frameH)
	dist := make([]int64, len(blocks))
	for i, b := range blocks {
		dx := int64(b.Left+b.Right) - cx
		dy := int64(b.Top+b.Bottom) - cy
		dist[i] = dx*dx + dy*dy
	}

	order := make([]int, len(blocks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return dist[order[i]] < dist[order[j]]
	})

	out := make([]Block, len(blocks))
	for i, idx := range order {
		out[i] = blocks[idx]
	}
	return out
}

func splitFrame(frameW, frameH, blockW, blockH uint32) []Block {
	if frameW == 0 || frameH == 0 {
		return []Block{}
	}

	cols := (frameW + blockW - 1) / blockW
	rows := (frameH + blockH - 1) / blockH
	blocks := make([]Block, 0, cols*rows)
	for top := uint32(0); top < frameH; top += blockH {
		bottom := min(top+blockH, frameH)
		for left := uint32(0); left < frameW; left += blockW {
			blocks = append(blocks, Block{
				Left:   left,
				Top:    top,
				Right:  min(left+blockW, frameW),
				Bottom: bottom,
			})
		}
	}
	return blocks
}
