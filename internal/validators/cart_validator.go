package validators

type AddCartItemRequest struct {
	ItemID   string `json:"itemId" validate:"required,object_id"`
	Quantity int    `json:"quantity" validate:"required,min=1,max=100"`
}

type SetCartQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,max=100"`
}
