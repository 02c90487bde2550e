package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rpupo63/blog-post-api/errs"
	"github.com/rpupo63/blog-post-api/models"
	"gorm.io/gorm"
)

const blogPostEntity = "blog post"

type BlogPostRepo struct {
	db *gorm.DB
}

func NewBlogPostRepo(db *gorm.DB) *BlogPostRepo {
	return &BlogPostRepo{db}
}

// FindAll returns all blog posts ordered by id
func (r *BlogPostRepo) FindAll(ctx context.Context) ([]*models.BlogPost, error) {
	blogPosts := []*models.BlogPost{}
	err := r.db.WithContext(ctx).Order("id").Find(&blogPosts).Error
	return blogPosts, err
}

// FindByID returns a blog post by its ID, or nil when there is none
func (r *BlogPostRepo) FindByID(ctx context.Context, id int64) (*models.BlogPost, error) {
	return findByID(r.db.WithContext(ctx), id)
}

// Add inserts a new blog post. The database assigns the ID unless one is set.
func (r *BlogPostRepo) Add(ctx context.Context, blogPost *models.BlogPost) error {
	return r.db.WithContext(ctx).Create(blogPost).Error
}

// Update writes the patched columns of an existing blog post
func (r *BlogPostRepo) Update(ctx context.Context, id int64, patch models.BlogPostPatch) (*models.BlogPost, error) {
	var updated *models.BlogPost
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := findByID(tx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return errs.NewNotFound(blogPostEntity)
		}
		if err := applyPatch(tx, existing, patch); err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, transactionError("update blog post", err)
	}
	return updated, nil
}

// Upsert updates the blog post with the given id, or creates it with that id
// when it does not exist. It reports whether a new post was created. Creating
// under an id above models.MaxClientBlogPostID is rejected.
func (r *BlogPostRepo) Upsert(ctx context.Context, id int64, patch models.BlogPostPatch, now time.Time) (*models.BlogPost, bool, error) {
	var (
		result  *models.BlogPost
		created bool
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := findByID(tx, id)
		if err != nil {
			return err
		}

		if existing == nil {
			if id > models.MaxClientBlogPostID {
				return errs.NewInvalidFieldError("id", fmt.Sprintf("must not exceed %d when creating a blog post", models.MaxClientBlogPostID))
			}
			blogPost := &models.BlogPost{ID: id, Date: now}
			patch.Apply(blogPost)
			if err := tx.Create(blogPost).Error; err != nil {
				return err
			}
			result, created = blogPost, true
			return nil
		}

		if err := applyPatch(tx, existing, patch); err != nil {
			return err
		}
		result = existing
		return nil
	})
	if err != nil {
		return nil, false, transactionError("upsert blog post", err)
	}
	return result, created, nil
}

// Delete removes a blog post from the database by id
func (r *BlogPostRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.BlogPost{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound(blogPostEntity)
	}
	return nil
}

func findByID(db *gorm.DB, id int64) (*models.BlogPost, error) {
	var blogPost models.BlogPost
	err := db.First(&blogPost, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &blogPost, nil
}

// transactionError keeps errors that already carry a status and wraps the rest.
func transactionError(operation string, err error) error {
	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) {
		return err
	}
	return errs.NewTransactionFailedError(operation, err)
}

func applyPatch(tx *gorm.DB, blogPost *models.BlogPost, patch models.BlogPostPatch) error {
	columns := patch.Apply(blogPost)
	if len(columns) == 0 {
		return nil
	}
	return tx.Model(blogPost).Select(columns).Updates(blogPost).Error
}
