// Package fingerprint computes perceptual hashes for images and clusters
// near-duplicates by Hamming distance.
package fingerprint

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"sort"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// Hashes holds the perceptual hashes computed for one image.
type Hashes struct {
	PHash string `json:"phash"` // 64-bit DCT hash as hex string
	DHash string `json:"dhash"` // 64-bit difference hash as hex string

	phashBits uint64
	dhashBits uint64
}

// Compute decodes the image and computes both pHash and dHash.
func Compute(imageData []byte) (*Hashes, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	p := perceptualHash(img)
	d := differenceHash(img)

	return &Hashes{
		PHash:     fmt.Sprintf("%016x", p),
		DHash:     fmt.Sprintf("%016x", d),
		phashBits: p,
		dhashBits: d,
	}, nil
}

// Distance returns the Hamming distance between the pHashes of two images.
func Distance(a, b *Hashes) int {
	return hamming(a.phashBits, b.phashBits)
}

// Similar reports whether two images are near-duplicates: either hash
// within the given Hamming threshold. A threshold of 10 works well for
// resized or re-encoded copies of the same photo.
func Similar(a, b *Hashes, threshold int) bool {
	return hamming(a.phashBits, b.phashBits) <= threshold ||
		hamming(a.dhashBits, b.dhashBits) <= threshold
}

func hamming(x, y uint64) int {
	xor := x ^ y
	distance := 0
	for xor != 0 {
		distance++
		xor &= xor - 1 // clear lowest set bit
	}
	return distance
}

// perceptualHash computes a 64-bit DCT-based hash. The image is shrunk to
// 32x32 grayscale, transformed with DCT-II, and 64 distinct low-frequency
// AC coefficients (the 8x8 block minus the DC term, plus the first
// coefficient of the next row) are compared against their median.
func perceptualHash(img image.Image) uint64 {
	gray := grayscale(shrink(img, 32, 32))
	dct := cosineTransform(gray)

	coeffs := make([]float64, 0, 64)
	for u := 0; u < 8; u++ {
		for v := 0; v < 8; v++ {
			if u == 0 && v == 0 {
				continue // skip DC component
			}
			coeffs = append(coeffs, dct[u][v])
		}
	}
	coeffs = append(coeffs, dct[8][0])

	m := median(coeffs)
	var hash uint64
	for i, c := range coeffs {
		if c > m {
			hash |= 1 << (63 - i)
		}
	}
	return hash
}

// differenceHash computes a 64-bit gradient hash: shrink to 9x8 grayscale
// and compare each pixel against its right neighbor.
func differenceHash(img image.Image) uint64 {
	gray := grayscale(shrink(img, 9, 8))

	var hash uint64
	bit := 63
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if gray[x][y] > gray[x+1][y] {
				hash |= 1 << bit
			}
			bit--
		}
	}
	return hash
}

func shrink(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// grayscale converts an image to luma values indexed [x][y], range 0-255.
func grayscale(img *image.RGBA) [][]float64 {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	gray := make([][]float64, width)
	for x := range gray {
		gray[x] = make([]float64, height)
		for y := range gray[x] {
			r, g, b, _ := img.At(x, y).RGBA()
			// ITU-R BT.601 luma formula.
			gray[x][y] = 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
		}
	}
	return gray
}

// cosineTransform computes the 2D DCT-II of a square grayscale matrix.
func cosineTransform(gray [][]float64) [][]float64 {
	size := len(gray)

	cosTable := make([][]float64, size)
	for i := range cosTable {
		cosTable[i] = make([]float64, size)
		for j := 0; j < size; j++ {
			cosTable[i][j] = math.Cos(math.Pi * float64(i) * (2*float64(j) + 1) / (2 * float64(size)))
		}
	}

	dct := make([][]float64, size)
	for u := range dct {
		dct[u] = make([]float64, size)
		for v := 0; v < size; v++ {
			var sum float64
			for x := 0; x < size; x++ {
				for y := 0; y < size; y++ {
					sum += gray[x][y] * cosTable[u][x] * cosTable[v][y]
				}
			}
			dct[u][v] = sum
		}
	}
	return dct
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}
