package blog

// Post is a single blog post.
//
// Timestamps are epoch milliseconds. CreatedAt is fixed when the post is first
// created and carried over unchanged by every Update.
type Post struct {
	ID         int    `json:"id" yaml:"id"`
	Title      string `json:"title" yaml:"title"`
	Content    string `json:"content" yaml:"content"`
	CreatedAt  int64  `json:"createdAt" yaml:"createdAt"`
	ModifiedAt int64  `json:"modifiedAt" yaml:"modifiedAt"`
}

// replace returns a copy of p with new text and modification time.
func (p Post) replace(title, content string, modifiedAt int64) Post {
	return Post{
		ID:         p.ID,
		Title:      title,
		Content:    content,
		CreatedAt:  p.CreatedAt,
		ModifiedAt: modifiedAt,
	}
}
