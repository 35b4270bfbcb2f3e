package customer

type Customer struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	PostCode    string `json:"postCode"`
}

func NewCustomer(id, username, email, phoneNumber, postCode string) *Customer {
	return &Customer{
		ID:          id,
		Username:    username,
		Email:       email,
		PhoneNumber: phoneNumber,
		PostCode:    postCode,
	}
}

// ReplaceDetails overwrites every field except the ID with the values from src.
func (c *Customer) ReplaceDetails(src *Customer) {
	if src == nil {
		return
	}
	c.Username = src.Username
	c.Email = src.Email
	c.PhoneNumber = src.PhoneNumber
	c.PostCode = src.PostCode
}
