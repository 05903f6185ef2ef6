package uploadphoto

import (
	"context"

	"station-dashboard/internal/verification"
)

// Output is the refreshed status the client starts polling from.
type Output = verification.StatusView

type Uploader interface {
	UploadPhoto(ctx context.Context, managerID string, photo verification.Photo) (*verification.StatusView, error)
}
