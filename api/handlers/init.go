package handlers

import "github.com/courieros/courierstack/internal/repository"

type APIHandlers struct {
	Courier *CourierHandler
}

func InitHandlers(r *repository.Repositories) *APIHandlers {
	return &APIHandlers{
		Courier: NewCourierHandler(r),
	}
}
