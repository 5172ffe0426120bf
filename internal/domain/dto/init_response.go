package dto

// InitResponse is returned by GET /api/init after a successful reseed.
type InitResponse struct {
	Message string `json:"message" example:"Database seeded"`
	Count   int    `json:"count" example:"60"`
}
