package carve

import (
	"image"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/apetrei/carve/utils"
)

// SeamCarver is an interface that Processor uses to implement the Resize
// function. It takes an image as parameter and returns the resized image.
type SeamCarver interface {
	Resize(*image.NRGBA) (image.Image, error)
}

var _ SeamCarver = (*Processor)(nil)

// Processor options
type Processor struct {
	NewWidth    int
	NewHeight   int
	Strategy    string
	SeamColor   string
	CascadePath string
	FaceAngle   float64
	Logger      zerolog.Logger
	Percentage  bool
	Scale       bool
	Visualize   bool
	FaceDetect  bool

	carver *Carver
}

// Resize implements the Resize method of the SeamCarver interface.
func Resize(s SeamCarver, img *image.NRGBA) (image.Image, error) {
	return s.Resize(img)
}

// Resize carves the image down to the configured target shape. Width and
// height targets are final pixel dimensions, or percentages of the
// original when the Percentage option is set; a zero target leaves that
// dimension alone. Requests to enlarge a dimension are reported and
// skipped, since enlargement needs seam addition.
func (p *Processor) Resize(img *image.NRGBA) (image.Image, error) {
	finder, err := NewFinder(p.strategy())
	if err != nil {
		if errors.Is(err, ErrNotImplemented) {
			p.Logger.Warn().Err(err).Msg("resize skipped")
			return img, nil
		}
		return nil, err
	}

	target, err := p.targetShape(img.Bounds().Dx(), img.Bounds().Dy())
	if err != nil {
		return nil, err
	}

	if p.Scale {
		img = p.prescale(img, target)
	}

	carver := NewCarver(pixmapFromImage(img), finder, p.Visualize, p.Logger)
	if p.SeamColor != "" {
		marker, err := utils.HexToRGBA(p.SeamColor)
		if err != nil {
			return nil, errors.Wrap(err, "invalid seam color")
		}
		carver.Marker = marker
	}

	if p.FaceDetect {
		detector, err := LoadFaceDetector(p.CascadePath, p.FaceAngle)
		if err != nil {
			return nil, err
		}
		faces := detector.DetectFaces(img)
		p.Logger.Info().Int("faces", len(faces)).Msg("face detection")
		carver.Protect(faces...)
	}

	cur := carver.Shape()
	if target.Width > cur.Width {
		if err := carver.AddSeams(target.Width - cur.Width); err != nil {
			if !errors.Is(err, ErrNotImplemented) {
				return nil, err
			}
			p.Logger.Warn().Err(err).
				Int("target_width", target.Width).
				Msg("cannot enlarge width, keeping current")
			target.Width = cur.Width
		}
	}
	if target.Height > cur.Height {
		if err := carver.AddSeams(target.Height - cur.Height); err != nil {
			if !errors.Is(err, ErrNotImplemented) {
				return nil, err
			}
			p.Logger.Warn().Err(err).
				Int("target_height", target.Height).
				Msg("cannot enlarge height, keeping current")
			target.Height = cur.Height
		}
	}

	if err := carver.ResizeTo(target); err != nil {
		return nil, err
	}
	p.carver = carver

	return carver.Image().NRGBA(), nil
}

// Process reads an image from r, resizes it and encodes the result into
// w. We are using the io package, since we can provide different input
// and output types, as long as they implement the io.Reader and io.Writer
// interface.
func (p *Processor) Process(r io.Reader, w io.Writer) error {
	src, err := decodeImage(r)
	if err != nil {
		return err
	}
	res, err := Resize(p, imgToNRGBA(src))
	if err != nil {
		return errors.Wrap(err, "could not resize the image")
	}
	return EncodeImage(w, imgToNRGBA(res))
}

// Visualization returns the original-resolution canvas of the last
// resize with all removed pixels painted in the seam color, or nil when
// the Visualize option was off.
func (p *Processor) Visualization() *image.NRGBA {
	if p.carver == nil || p.carver.Canvas() == nil {
		return nil
	}
	return p.carver.Canvas().NRGBA()
}

// SeamHistory returns the seams removed by the last resize, oldest
// first.
func (p *Processor) SeamHistory() []Seam {
	if p.carver == nil {
		return nil
	}
	return p.carver.History()
}

func (p *Processor) strategy() string {
	if p.Strategy == "" {
		return StrategyDP
	}
	return p.Strategy
}

// targetShape resolves the configured targets against the source
// dimensions, leaving untouched any dimension without a target.
func (p *Processor) targetShape(width, height int) (Shape, error) {
	target := Shape{Height: height, Width: width}

	if p.Percentage {
		if p.NewWidth > 0 {
			target.Width = width * p.NewWidth / 100
		}
		if p.NewHeight > 0 {
			target.Height = height * p.NewHeight / 100
		}
	} else {
		if p.NewWidth > 0 {
			target.Width = p.NewWidth
		}
		if p.NewHeight > 0 {
			target.Height = p.NewHeight
		}
	}

	if target.Width < 1 || target.Height < 1 {
		return Shape{}, errors.Errorf("target shape %dx%d must keep at least one pixel per dimension",
			target.Width, target.Height)
	}
	return target, nil
}

// prescale shrinks the image proportionally toward the target with
// Lanczos resampling, stopping as soon as one dimension reaches it, so
// carving only has to remove the remaining delta. Only applied when both
// dimensions shrink; otherwise carving handles the whole request.
func (p *Processor) prescale(img *image.NRGBA, target Shape) *image.NRGBA {
	width, height := img.Bounds().Dx(), img.Bounds().Dy()
	if target.Width >= width || target.Height >= height {
		return img
	}

	f := math.Max(
		float64(target.Width)/float64(width),
		float64(target.Height)/float64(height),
	)
	nw := utils.Max(target.Width, int(float64(width)*f+0.5))
	nh := utils.Max(target.Height, int(float64(height)*f+0.5))

	p.Logger.Debug().
		Int("width", nw).
		Int("height", nh).
		Msg("prescaling before carving")
	return imaging.Resize(img, nw, nh, imaging.Lanczos)
}
