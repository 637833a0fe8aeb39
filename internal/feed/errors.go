package feed

import (
	"errors"

	"fanfeed/internal/api"
	"fanfeed/internal/models"
)

// classify folds any error into the application taxonomy. Already-typed
// errors pass through; everything else goes through the HTTP classifier.
func classify(err error) *models.AppError {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return api.Classify(err)
}
