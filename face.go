package carve

import (
	"image"
	"os"

	pigo "github.com/esimov/pigo/core"
	"github.com/pkg/errors"

	"github.com/apetrei/carve/utils"
)

// faceWeight is added to the energy of every pixel inside a protected
// region, far above the sqrt(2) ceiling of the gradient itself, so seams
// only cross a face when there is no other way down.
const faceWeight = 1e3

// faceQualityThreshold filters out low score cascade detections.
const faceQualityThreshold = 5.0

// FaceDetector locates faces so the carver can route seams around them.
// It wraps a pigo classifier unpacked from a binary cascade file.
type FaceDetector struct {
	classifier *pigo.Pigo
	angle      float64
}

// NewFaceDetector unpacks the binary cascade data. This will return the
// number of cascade trees, the tree depth, the threshold and the
// prediction from tree's leaf nodes.
func NewFaceDetector(cascade []byte, angle float64) (*FaceDetector, error) {
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, errors.Wrap(err, "error unpacking the cascade file")
	}
	return &FaceDetector{classifier: classifier, angle: angle}, nil
}

// LoadFaceDetector reads a binary cascade file from disk and unpacks it.
func LoadFaceDetector(path string, angle float64) (*FaceDetector, error) {
	cascade, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not read the cascade file")
	}
	return NewFaceDetector(cascade, angle)
}

// DetectFaces runs the classifier over the image and returns the
// clustered face regions with an acceptable detection score, as
// rectangles in image coordinates.
func (d *FaceDetector) DetectFaces(img *image.NRGBA) []image.Rectangle {
	dx, dy := img.Bounds().Max.X, img.Bounds().Max.Y

	cParams := pigo.CascadeParams{
		MinSize:     100,
		MaxSize:     utils.Max(dx, dy),
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,

		ImageParams: pigo.ImageParams{
			Pixels: pigo.RgbToGrayscale(img),
			Rows:   dy,
			Cols:   dx,
			Dim:    dx,
		},
	}

	faces := d.classifier.RunCascade(cParams, d.angle)

	// Calculate the intersection over union (IoU) of two clusters.
	faces = d.classifier.ClusterDetections(faces, 0.2)

	var rects []image.Rectangle
	for _, face := range faces {
		if face.Q > faceQualityThreshold {
			rects = append(rects, image.Rect(
				face.Col-face.Scale/2,
				face.Row-face.Scale/2,
				face.Col+face.Scale/2,
				face.Row+face.Scale/2,
			))
		}
	}
	return rects
}
