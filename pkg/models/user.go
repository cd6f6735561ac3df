package models

// User is stored in the "user" collection. No route reads or writes it yet.
type User struct {
	Name     string  `json:"name" bson:"name"`
	Email    string  `json:"email" bson:"email"`
	Address  *string `json:"address" bson:"address"`
	Age      *int64  `json:"age" bson:"age"`
	IsActive bool    `json:"is_active" bson:"is_active"`
}

type userInput struct {
	Name     *string `json:"name" validate:"required"`
	Email    *string `json:"email" validate:"required,email"`
	Address  *string `json:"address"`
	Age      *int64  `json:"age" validate:"omitempty,gte=0,lte=120"`
	IsActive *bool   `json:"is_active"`
}

func ParseUser(payload []byte) (*User, error) {
	var in userInput
	if err := decodeAndValidate(payload, &in); err != nil {
		return nil, err
	}

	return &User{
		Name:     *in.Name,
		Email:    *in.Email,
		Address:  in.Address,
		Age:      in.Age,
		IsActive: boolOr(in.IsActive, true),
	}, nil
}
