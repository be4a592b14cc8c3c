package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type Paging struct {
	Page    int
	PerPage int
	Offset  int
	Limit   int
}

// Meta = blok "meta" pada response list.
type Meta struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
}

// ResolvePaging membaca ?page= & ?per_page= (atau alias ?limit=) dan normalisasi.
// - defaultPerPage: fallback kalau tidak ada/invalid
// - maxPerPage: batasi per_page maksimum (0 = tanpa batas)
func ResolvePaging(c *fiber.Ctx, defaultPerPage, maxPerPage int) Paging {
	pageStr := strings.TrimSpace(c.Query("page", "1"))

	perPageStr := strings.TrimSpace(c.Query("per_page"))
	if perPageStr == "" {
		perPageStr = strings.TrimSpace(c.Query("limit", strconv.Itoa(defaultPerPage)))
	}

	page, _ := strconv.Atoi(pageStr)
	if page < 1 {
		page = 1
	}

	perPage, _ := strconv.Atoi(perPageStr)
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if maxPerPage > 0 && perPage > maxPerPage {
		perPage = maxPerPage
	}

	return Paging{
		Page:    page,
		PerPage: perPage,
		Offset:  (page - 1) * perPage,
		Limit:   perPage,
	}
}

func BuildMeta(total int64, p Paging) Meta {
	perPage := p.PerPage
	if perPage <= 0 {
		perPage = 15
	}
	page := p.Page
	if page <= 0 {
		page = 1
	}
	last := int((total + int64(perPage) - 1) / int64(perPage)) // ceil
	if last == 0 {
		last = 1
	}
	return Meta{
		CurrentPage: page,
		LastPage:    last,
		PerPage:     perPage,
		Total:       total,
	}
}
