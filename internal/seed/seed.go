// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seed populates the database with test data.
func Seed(db *gorm.DB, opts Options) error {
	if opts.NumPosts > 0 && opts.NumUsers <= 0 {
		return fmt.Errorf("cannot seed %d posts without users", opts.NumPosts)
	}
	log.Printf("Seeding %d users and %d posts...", opts.NumUsers, opts.NumPosts)
	gofakeit.Seed(time.Now().UnixNano())

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return fmt.Errorf("failed to clear existing data: %w", err)
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d users", len(users))

	posts, err := createPosts(db, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("created %d posts", len(posts))

	if err := createEngagement(db, users, posts); err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}
	log.Println("seeding complete; all test users have the password: Password12345")

	return nil
}

func clearData(db *gorm.DB) error {
	// Delete in dependency order to satisfy foreign keys.
	tables := []string{"favorites", "likes", "comments", "posts", "users"}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(db *gorm.DB, n int) ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("Password12345"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user := &models.User{
			Username:  fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
			Email:     gofakeit.Email(),
			Password:  string(hashed),
			Bio:       gofakeit.Sentence(10),
			AvatarURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		}
		if err := db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createPosts(db *gorm.DB, users []*models.User, n int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[rand.Intn(len(users))]
		status := models.PostStatusPublished
		// Roughly one in ten posts stays a draft.
		if rand.Intn(10) == 0 {
			status = models.PostStatusDraft
		}
		post := &models.Post{
			Title:   gofakeit.Sentence(5),
			Content: gofakeit.Paragraph(2, 4, 8, "\n"),
			Status:  status,
			UserID:  author.ID,
		}
		if err := db.Create(post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func createEngagement(db *gorm.DB, users []*models.User, posts []*models.Post) error {
	for _, post := range posts {
		if post.Status != models.PostStatusPublished {
			continue
		}
		for _, user := range users {
			if rand.Intn(4) == 0 {
				like := &models.Like{UserID: user.ID, PostID: post.ID}
				if err := db.Create(like).Error; err != nil {
					return err
				}
			}
			if rand.Intn(10) == 0 {
				fav := &models.Favorite{UserID: user.ID, PostID: post.ID}
				if err := db.Create(fav).Error; err != nil {
					return err
				}
			}
			if rand.Intn(6) == 0 {
				comment := &models.Comment{
					Content: gofakeit.Sentence(12),
					UserID:  user.ID,
					PostID:  post.ID,
				}
				if err := db.Create(comment).Error; err != nil {
					return err
				}
			}
		}
	}
	return nil
}
