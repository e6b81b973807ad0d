package clients

type CreateClientRequest struct {
	Name    string  `json:"name" validate:"required,max=200"`
	Contact *string `json:"contact,omitempty" validate:"omitempty,max=200"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=40"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=500"`
	TaxID   *string `json:"tax_id,omitempty" validate:"omitempty,max=50"`
}

type UpdateClientRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Contact  *string `json:"contact,omitempty" validate:"omitempty,max=200"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=40"`
	Address  *string `json:"address,omitempty" validate:"omitempty,max=500"`
	TaxID    *string `json:"tax_id,omitempty" validate:"omitempty,max=50"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type ListClientsRequest struct {
	Search   *string `json:"search,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
	Limit    int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int     `json:"offset" validate:"gte=0"`
}
