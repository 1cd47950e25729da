package book

import "bookswap/model"

type BookReq struct {
	Title     string `json:"title" validate:"required"`
	Author    string `json:"author" validate:"required"`
	Genre     string `json:"genre"`
	Condition string `json:"condition"`
	// nil means the payload omitted it: true on create, unchanged on update.
	Availability *bool  `json:"availability"`
	Location     string `json:"location"`
}

func filtersFromQuery(get func(string) string) model.BookFilters {
	return model.BookFilters{
		Title:    get("title"),
		Author:   get("author"),
		Genre:    get("genre"),
		Location: get("location"),
	}
}
