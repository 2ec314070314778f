package domain

import (
	"strings"
)

// Client is a billable customer. ID is assigned by the store; zero means
// the client has not been saved yet.
type Client struct {
	ID      int64
	Name    string
	Address string
	Email   string
	Phone   string
}

// NewClient creates a new client with trimmed fields
func NewClient(name, address, email, phone string) *Client {
	c := &Client{
		Name:    name,
		Address: address,
		Email:   email,
		Phone:   phone,
	}
	c.Normalize()
	return c
}

// Normalize trims surrounding whitespace from every text field
func (c *Client) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Address = strings.TrimSpace(c.Address)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
}

// Validate returns an error if the client is invalid
func (c *Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return NewValidationError("Client name is required")
	}
	return nil
}

// IsNew reports whether the client has no store-assigned id
func (c *Client) IsNew() bool {
	return c.ID == 0
}
