package response

import "github.com/gofiber/fiber/v2"

// Envelope is the body of every successful response.
type Envelope struct {
	Success  bool `json:"success"`
	Data     any  `json:"data"`
	Metadata any  `json:"metadata,omitempty"`
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// ListMetadata is the metadata of a list response.
type ListMetadata struct {
	Pagination Pagination `json:"pagination"`
}

// MessageMetadata carries a human-readable confirmation.
type MessageMetadata struct {
	Message string `json:"message"`
}

// OK writes a 200 envelope.
func OK(c *fiber.Ctx, data any, metadata any) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{Success: true, Data: data, Metadata: metadata})
}

// Created writes a 201 envelope.
func Created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(Envelope{Success: true, Data: data})
}
