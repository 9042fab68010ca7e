package model

// Car is an immutable catalog entry. Cars are seeded into the data file out
// of band and are never created or mutated by this service.
type Car struct {
	ID    int    `json:"id" bson:"id" validate:"required,min=1"`
	Make  string `json:"make" bson:"make" validate:"required"`
	Model string `json:"model" bson:"model" validate:"required"`
}
