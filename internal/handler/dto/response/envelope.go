package response

import "tour-booking/internal/usecase/queries"

type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type PagedEnvelope struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message,omitempty"`
	Data       any                `json:"data"`
	Pagination queries.Pagination `json:"pagination"`
}

func OK(message string, data any) Envelope {
	return Envelope{Success: true, Message: message, Data: data}
}

func Paged(data any, p queries.Pagination) PagedEnvelope {
	return PagedEnvelope{Success: true, Data: data, Pagination: p}
}
