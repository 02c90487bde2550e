package models

import (
	"math"
	"time"
)

// MaxClientBlogPostID is the largest id a client may create a blog post under.
// Ids above it stay free for the store's own sequence.
const MaxClientBlogPostID int64 = math.MaxInt32

// BlogPost represents a single stored blog post
type BlogPost struct {
	ID       int64     `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Date     time.Time `json:"date" db:"date" gorm:"not null"`
	Title    *string   `json:"title" db:"title" gorm:"type:text"`
	Category *string   `json:"category" db:"category" gorm:"type:text"`
	Body     *string   `json:"body" db:"body" gorm:"type:text"`
	Tags     *string   `json:"-" db:"tags" gorm:"type:text"`
}

func (BlogPost) TableName() string {
	return "blog_posts"
}

// TagList decodes the stored tags column.
func (p BlogPost) TagList() ([]string, error) {
	return DecodeTags(p.Tags)
}

// SetTagList stores tags in their encoded form. A nil slice clears the column.
func (p *BlogPost) SetTagList(tags []string) {
	if tags == nil {
		p.Tags = nil
		return
	}
	encoded := EncodeTags(tags)
	p.Tags = &encoded
}

type patchField[T any] struct {
	value T
	set   bool
}

// BlogPostPatch is the closed set of attributes a caller may write. Only fields
// that were explicitly set are applied, including explicit nulls.
type BlogPostPatch struct {
	title    patchField[*string]
	category patchField[*string]
	body     patchField[*string]
	tags     patchField[[]string]
}

func (p *BlogPostPatch) SetTitle(title *string) {
	p.title = patchField[*string]{value: title, set: true}
}

func (p *BlogPostPatch) SetCategory(category *string) {
	p.category = patchField[*string]{value: category, set: true}
}

func (p *BlogPostPatch) SetBody(body *string) {
	p.body = patchField[*string]{value: body, set: true}
}

func (p *BlogPostPatch) SetTags(tags []string) {
	p.tags = patchField[[]string]{value: tags, set: true}
}

// IsEmpty reports whether no field was set.
func (p BlogPostPatch) IsEmpty() bool {
	return !p.title.set && !p.category.set && !p.body.set && !p.tags.set
}

// Apply writes the set fields onto post and returns the column names it touched.
func (p BlogPostPatch) Apply(post *BlogPost) []string {
	var columns []string
	if p.title.set {
		post.Title = p.title.value
		columns = append(columns, "title")
	}
	if p.category.set {
		post.Category = p.category.value
		columns = append(columns, "category")
	}
	if p.body.set {
		post.Body = p.body.value
		columns = append(columns, "body")
	}
	if p.tags.set {
		post.SetTagList(p.tags.value)
		columns = append(columns, "tags")
	}
	return columns
}
