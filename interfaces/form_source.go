package interfaces

import (
	"context"

	"github.com/courieros/courierstack/dto"
)

// FormSource fetches submitted form records from the upstream form tool.
type FormSource interface {
	FetchRecords(ctx context.Context) ([]dto.KoboSubmission, error)
}
