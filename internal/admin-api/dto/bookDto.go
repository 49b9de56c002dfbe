package dto

import (
	"time"

	"ebookstore/internal/admin-api/models"
)

type ChapterDTO struct {
	Heading   string `json:"heading"`
	Body      string `json:"body"`
	Alignment string `json:"alignment"`
}

// CreateBookDTO used for POST /api/admin/books
type CreateBookDTO struct {
	Title              string       `json:"title" binding:"required"`
	Writer             string       `json:"writer"`
	Description        string       `json:"description"`
	CategoryNames      []string     `json:"category_names"`
	Language           string       `json:"language"`
	ReleaseDate        *time.Time   `json:"release_date,omitempty"`
	PricePKR           float64      `json:"price_pkr"`
	PriceUSD           float64      `json:"price_usd"`
	DiscountedPricePKR float64      `json:"discounted_price_pkr"`
	DiscountType       string       `json:"discount_type"`
	DiscountValue      float64      `json:"discount_value"`
	RestrictedPages    int          `json:"restricted_pages"`
	Tag                string       `json:"tag"`
	Keywords           []string     `json:"keywords"`
	CoverURL           string       `json:"cover_url"`
	FrontPageURL       string       `json:"front_page_url"`
	BackPageURL        string       `json:"back_page_url"`
	Chapters           []ChapterDTO `json:"chapters"`
	Status             string       `json:"status"`
}

// UpdateBookDTO used for PUT /api/admin/books/:book_id (partial updates allowed)
type UpdateBookDTO struct {
	Title              *string       `json:"title,omitempty"`
	Writer             *string       `json:"writer,omitempty"`
	Description        *string       `json:"description,omitempty"`
	CategoryNames      *[]string     `json:"category_names,omitempty"`
	Language           *string       `json:"language,omitempty"`
	ReleaseDate        *time.Time    `json:"release_date,omitempty"`
	PricePKR           *float64      `json:"price_pkr,omitempty"`
	PriceUSD           *float64      `json:"price_usd,omitempty"`
	DiscountedPricePKR *float64      `json:"discounted_price_pkr,omitempty"`
	DiscountType       *string       `json:"discount_type,omitempty"`
	DiscountValue      *float64      `json:"discount_value,omitempty"`
	RestrictedPages    *int          `json:"restricted_pages,omitempty"`
	Tag                *string       `json:"tag,omitempty"`
	Keywords           *[]string     `json:"keywords,omitempty"`
	CoverURL           *string       `json:"cover_url,omitempty"`
	FrontPageURL       *string       `json:"front_page_url,omitempty"`
	BackPageURL        *string       `json:"back_page_url,omitempty"`
	Chapters           *[]ChapterDTO `json:"chapters,omitempty"`
	Status             *string       `json:"status,omitempty"`
}

// BookResponse DTO for detail responses
type BookResponse struct {
	ID                 string       `json:"id"`
	Title              string       `json:"title"`
	Writer             string       `json:"writer"`
	Description        string       `json:"description"`
	CategoryNames      []string     `json:"category_names"`
	Language           string       `json:"language"`
	ReleaseDate        *time.Time   `json:"release_date,omitempty"`
	PricePKR           float64      `json:"price_pkr"`
	PriceUSD           float64      `json:"price_usd"`
	DiscountedPricePKR float64      `json:"discounted_price_pkr"`
	DiscountType       string       `json:"discount_type"`
	DiscountValue      float64      `json:"discount_value"`
	RestrictedPages    int          `json:"restricted_pages"`
	Tag                string       `json:"tag"`
	Keywords           []string     `json:"keywords"`
	CoverURL           string       `json:"cover_url"`
	FrontPageURL       string       `json:"front_page_url"`
	BackPageURL        string       `json:"back_page_url"`
	Chapters           []ChapterDTO `json:"chapters"`
	Status             string       `json:"status"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// BookBasicResponse keeps list payloads small
type BookBasicResponse struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Writer        string   `json:"writer"`
	CategoryNames []string `json:"category_names"`
	PricePKR      float64  `json:"price_pkr"`
	Status        string   `json:"status"`
	CoverURL      string   `json:"cover_url,omitempty"`
}

// Converters
func (d CreateBookDTO) ToModel() models.Book {
	return models.Book{
		Title:              d.Title,
		Writer:             d.Writer,
		Description:        d.Description,
		CategoryNames:      models.StringList(d.CategoryNames),
		Language:           d.Language,
		ReleaseDate:        d.ReleaseDate,
		PricePKR:           d.PricePKR,
		PriceUSD:           d.PriceUSD,
		DiscountedPricePKR: d.DiscountedPricePKR,
		DiscountType:       d.DiscountType,
		DiscountValue:      d.DiscountValue,
		RestrictedPages:    d.RestrictedPages,
		Tag:                d.Tag,
		Keywords:           models.StringList(d.Keywords),
		CoverURL:           d.CoverURL,
		FrontPageURL:       d.FrontPageURL,
		BackPageURL:        d.BackPageURL,
		Chapters:           chaptersToModel(d.Chapters),
		Status:             d.Status,
	}
}

func (d UpdateBookDTO) ApplyTo(b *models.Book) {
	if d.Title != nil {
		b.Title = *d.Title
	}
	if d.Writer != nil {
		b.Writer = *d.Writer
	}
	if d.Description != nil {
		b.Description = *d.Description
	}
	if d.CategoryNames != nil {
		b.CategoryNames = models.StringList(*d.CategoryNames)
	}
	if d.Language != nil {
		b.Language = *d.Language
	}
	if d.ReleaseDate != nil {
		b.ReleaseDate = d.ReleaseDate
	}
	if d.PricePKR != nil {
		b.PricePKR = *d.PricePKR
	}
	if d.PriceUSD != nil {
		b.PriceUSD = *d.PriceUSD
	}
	if d.DiscountedPricePKR != nil {
		b.DiscountedPricePKR = *d.DiscountedPricePKR
	}
	if d.DiscountType != nil {
		b.DiscountType = *d.DiscountType
	}
	if d.DiscountValue != nil {
		b.DiscountValue = *d.DiscountValue
	}
	if d.RestrictedPages != nil {
		b.RestrictedPages = *d.RestrictedPages
	}
	if d.Tag != nil {
		b.Tag = *d.Tag
	}
	if d.Keywords != nil {
		b.Keywords = models.StringList(*d.Keywords)
	}
	if d.CoverURL != nil {
		b.CoverURL = *d.CoverURL
	}
	if d.FrontPageURL != nil {
		b.FrontPageURL = *d.FrontPageURL
	}
	if d.BackPageURL != nil {
		b.BackPageURL = *d.BackPageURL
	}
	if d.Chapters != nil {
		b.Chapters = chaptersToModel(*d.Chapters)
	}
	if d.Status != nil {
		b.Status = *d.Status
	}
}

func FromBookToResponse(b models.Book) BookResponse {
	return BookResponse{
		ID:                 b.ID,
		Title:              b.Title,
		Writer:             b.Writer,
		Description:        b.Description,
		CategoryNames:      b.CategoryNames,
		Language:           b.Language,
		ReleaseDate:        b.ReleaseDate,
		PricePKR:           b.PricePKR,
		PriceUSD:           b.PriceUSD,
		DiscountedPricePKR: b.DiscountedPricePKR,
		DiscountType:       b.DiscountType,
		DiscountValue:      b.DiscountValue,
		RestrictedPages:    b.RestrictedPages,
		Tag:                b.Tag,
		Keywords:           b.Keywords,
		CoverURL:           b.CoverURL,
		FrontPageURL:       b.FrontPageURL,
		BackPageURL:        b.BackPageURL,
		Chapters:           chaptersFromModel(b.Chapters),
		Status:             b.Status,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

func FromBookToBasicResponse(b models.Book) BookBasicResponse {
	return BookBasicResponse{
		ID:            b.ID,
		Title:         b.Title,
		Writer:        b.Writer,
		CategoryNames: b.CategoryNames,
		PricePKR:      b.PricePKR,
		Status:        b.Status,
		CoverURL:      b.CoverURL,
	}
}

func chaptersToModel(chapters []ChapterDTO) models.ChapterList {
	out := make(models.ChapterList, 0, len(chapters))
	for _, c := range chapters {
		out = append(out, models.Chapter{Heading: c.Heading, Body: c.Body, Alignment: c.Alignment})
	}
	return out
}

func chaptersFromModel(chapters models.ChapterList) []ChapterDTO {
	out := make([]ChapterDTO, 0, len(chapters))
	for _, c := range chapters {
		out = append(out, ChapterDTO{Heading: c.Heading, Body: c.Body, Alignment: c.Alignment})
	}
	return out
}
