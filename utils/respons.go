package utils

import (
	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageLink points at an adjacent result page.
type PageLink struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination carries next/prev links, present only when further pages
// exist in that direction.
type Pagination struct {
	Next *PageLink `json:"next,omitempty"`
	Prev *PageLink `json:"prev,omitempty"`
}

type PagedResponse struct {
	Status     bool        `json:"status"`
	Message    string      `json:"message"`
	Count      int         `json:"count"`
	Total      int64       `json:"total"`
	Pagination Pagination  `json:"pagination"`
	Data       interface{} `json:"data"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondPaged(c *gin.Context, code int, message string, count int, total int64, pagination Pagination, data interface{}) {
	c.JSON(code, PagedResponse{
		Status:     code >= 200 && code < 300,
		Message:    message,
		Count:      count,
		Total:      total,
		Pagination: pagination,
		Data:       data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

// BuildPagination computes the next/prev links for a page of results.
func BuildPagination(page, limit int, total int64) Pagination {
	var p Pagination
	if int64(page*limit) < total {
		p.Next = &PageLink{Page: page + 1, Limit: limit}
	}
	if page > 1 {
		p.Prev = &PageLink{Page: page - 1, Limit: limit}
	}
	return p
}
