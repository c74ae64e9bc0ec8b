package domain

// Book represents a single title in the catalog.
type Book struct {
	Record
	Title   string `json:"title"`
	Author  string `json:"author"`
	Genre   string `json:"genre,omitempty"`
	AddedBy string `json:"added_by,omitempty"` // User ID of whoever added the book
}
