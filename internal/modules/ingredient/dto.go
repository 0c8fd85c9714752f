package ingredient

type CreateIngredientRequest struct {
	Name            string `json:"name" validate:"required,max=200"`
	MeasurementUnit string `json:"measurement_unit" validate:"required,max=200"`
}

type UpdateIngredientRequest struct {
	Name            *string `json:"name" validate:"omitnil,min=1,max=200"`
	MeasurementUnit *string `json:"measurement_unit" validate:"omitnil,min=1,max=200"`
}
