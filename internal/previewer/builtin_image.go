package previewer

import (
	"context"
	"fmt"

	"github.com/disintegration/imaging"
)

// imagePreview decodes the image and scales it to the pane. Each cell holds
// two pixel rows, so the pixel height is twice the pane height.
func imagePreview(ctx context.Context, _ *Runner, job Job) (*Lock, error) {
	img, err := imaging.Open(job.Entry.FullPath, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image %s: %w", job.Entry.FullPath, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if w, h := job.Area.W, job.Area.H*2; w > 0 && h > 0 {
		b := img.Bounds()
		if b.Dx() > w || b.Dy() > h {
			img = imaging.Fit(img, w, h, imaging.Lanczos)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lock := newLock(job, KindImage)
	lock.Skip = 0
	lock.Image = img
	return lock, nil
}
