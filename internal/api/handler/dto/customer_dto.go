package dto

import (
	"customer-service/internal/domain/customer"
	"strings"
)

type CreateCustomerRequest struct {
	ID          string `json:"id" validate:"required,notblank,max=50" example:"C001"`
	Username    string `json:"username" validate:"required,notblank,max=50" example:"Taro"`
	Email       string `json:"email" validate:"required,email,max=50" example:"t@example.com"`
	PhoneNumber string `json:"phoneNumber" validate:"required,phone" example:"09012345678"`
	PostCode    string `json:"postCode" validate:"required,postcode" example:"1000001"`
}

func (r *CreateCustomerRequest) ToCustomer() *customer.Customer {
	return customer.NewCustomer(strings.TrimSpace(r.ID), r.Username, r.Email, r.PhoneNumber, r.PostCode)
}

// UpdateCustomerRequest carries the replacement values; the ID comes from the path.
type UpdateCustomerRequest struct {
	Username    string `json:"username" validate:"required,notblank,max=50" example:"Taro"`
	Email       string `json:"email" validate:"required,email,max=50" example:"t@example.com"`
	PhoneNumber string `json:"phoneNumber" validate:"required,phone" example:"09012345678"`
	PostCode    string `json:"postCode" validate:"required,postcode" example:"1000002"`
}

func (r *UpdateCustomerRequest) ToCustomer(id string) *customer.Customer {
	return customer.NewCustomer(id, r.Username, r.Email, r.PhoneNumber, r.PostCode)
}

type CustomerResponse struct {
	ID          string `json:"id" example:"C001"`
	Username    string `json:"username" example:"Taro"`
	Email       string `json:"email" example:"t@example.com"`
	PhoneNumber string `json:"phoneNumber" example:"09012345678"`
	PostCode    string `json:"postCode" example:"1000001"`
}

func NewCustomerResponse(cust *customer.Customer) CustomerResponse {
	if cust == nil {
		return CustomerResponse{}
	}
	return CustomerResponse{
		ID:          cust.ID,
		Username:    cust.Username,
		Email:       cust.Email,
		PhoneNumber: cust.PhoneNumber,
		PostCode:    cust.PostCode,
	}
}

func NewCustomerListResponse(customers []*customer.Customer) []CustomerResponse {
	resp := make([]CustomerResponse, 0, len(customers))
	for _, c := range customers {
		resp = append(resp, NewCustomerResponse(c))
	}
	return resp
}
