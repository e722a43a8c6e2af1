package wolai

// Content is one rich-text run of a block.
type Content struct {
	Title string `json:"title,omitempty"`
	Text  string `json:"text,omitempty"`
	Type  string `json:"type,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Block is a page element.
type Block struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	Content  []Content `json:"content,omitempty"`
	Language string    `json:"language,omitempty"`
	ParentID string    `json:"parent_id,omitempty"`
	PageID   string    `json:"page_id,omitempty"`
	Children *struct {
		IDs    []string `json:"ids"`
		APIURL *string  `json:"api_url"`
	} `json:"children,omitempty"`
}

// BlockList is a page of child blocks.
type BlockList struct {
	Data       []Block `json:"data"`
	NextCursor *string `json:"next_cursor"`
	HasMore    bool    `json:"has_more"`
}

// Cell is a database cell value.
type Cell struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Row is a database row; PageID identifies the article page.
type Row struct {
	PageID string          `json:"page_id"`
	Data   map[string]Cell `json:"data"`
}

// Database is the decoded body of a database query.
type Database struct {
	ColumnOrder []string `json:"column_order"`
	Rows        []Row    `json:"rows"`
}

// Article is a published database row.
type Article struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Status      string   `json:"status,omitempty"`
}
