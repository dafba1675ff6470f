package cvflow

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// BlurGray is sparse.Preprocessor which blurs BGR frame with Gaussian kernel and converts it to grayscale
type BlurGray struct {
	// Kernel size, must be odd
	blurPower int
}

// NewBlurGray creates new instance of BlurGray. Zero blur power disables blurring.
func NewBlurGray(blurPower int) (*BlurGray, error) {
	if blurPower < 0 || (blurPower > 0 && blurPower%2 == 0) {
		return nil, errors.Errorf("blur power must be odd positive number or zero, got %d", blurPower)
	}
	return &BlurGray{
		blurPower: blurPower,
	}, nil
}

// Prepare returns new grayscale matrix. Caller owns it.
func (p *BlurGray) Prepare(frame gocv.Mat) (gocv.Mat, error) {
	if frame.Empty() {
		return gocv.Mat{}, errors.New("frame is empty")
	}
	blurred := frame
	if p.blurPower > 0 {
		blurred = gocv.NewMat()
		defer blurred.Close()
		gocv.GaussianBlur(frame, &blurred, image.Pt(p.blurPower, p.blurPower), 0, 0, gocv.BorderDefault)
	}
	if blurred.Channels() == 1 {
		return blurred.Clone(), nil
	}
	gray := gocv.NewMat()
	gocv.CvtColor(blurred, &gray, gocv.ColorBGRToGray)
	return gray, nil
}

// MatRetainer is sparse.FrameRetainer for gocv.Mat
type MatRetainer struct{}

// Retain clones frame so caller can reuse its own matrix for the next read
func (MatRetainer) Retain(frame gocv.Mat) gocv.Mat {
	return frame.Clone()
}

// Discard closes matrix
func (MatRetainer) Discard(frame gocv.Mat) {
	frame.Close()
}
