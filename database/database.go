package database

import (
	"context"
	"fmt"

	"github.com/rpupo63/blog-post-api/models"
	"gorm.io/gorm"
)

type Database struct {
	db           *gorm.DB
	blogPostRepo *BlogPostRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:           db,
		blogPostRepo: NewBlogPostRepo(db),
	}
}

func (d Database) BlogPostRepo() *BlogPostRepo {
	return d.blogPostRepo
}

// AutoMigrate creates the blog_posts table when it does not exist yet.
func (d Database) AutoMigrate() error {
	if err := d.db.AutoMigrate(&models.BlogPost{}); err != nil {
		return fmt.Errorf("auto migrate blog posts: %w", err)
	}
	return nil
}

// Ping checks that the underlying connection pool can reach the database.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func (d Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
