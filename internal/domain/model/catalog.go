package model

// Product is the live catalog state of a purchasable item.
type Product struct {
	ID          string
	Title       string
	Price       int64
	IsAvailable bool
	ImageURL    string
	WeightLabel string
}

// Coordinates is a latitude/longitude pair in degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}
