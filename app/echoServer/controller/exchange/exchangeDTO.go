package exchange

type CreateExchangeReq struct {
	BookID           int64  `json:"book_id" validate:"required,gt=0"`
	ReceiverID       int64  `json:"receiver_id" validate:"required,gt=0"`
	DeliveryMethod   string `json:"delivery_method" validate:"required"`
	ExchangeDuration int    `json:"exchange_duration" validate:"required,gt=0"`
}

type UpdateExchangeReq struct {
	Status string `json:"status" validate:"required"`
}
