package models

// Vehicle is owned by a rider and embedded in the rider document. A
// breakdown request carries a denormalized snapshot of the chosen vehicle
// so the request stays readable even if the rider later edits the list.
type Vehicle struct {
	ID          string `json:"id" bson:"id"`
	Make        string `json:"make" bson:"make"`
	Model       string `json:"model" bson:"model"`
	Year        int    `json:"year" bson:"year"`
	PlateNumber string `json:"plate_number" bson:"plate_number"`
	Color       string `json:"color" bson:"color"`
	PhotoURL    string `json:"photo_url,omitempty" bson:"photo_url,omitempty"`
}
