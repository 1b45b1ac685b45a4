// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"yatube/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

var defaultGroups = []models.Group{
	{Title: "Technology", Slug: "technology", Description: "Software, hardware and everything in between"},
	{Title: "Books", Slug: "books", Description: "Reading lists, reviews and recommendations"},
	{Title: "Travel", Slug: "travel", Description: "Trip reports and travel notes"},
	{Title: "Music", Slug: "music", Description: "New releases and old favorites"},
	{Title: "Food", Slug: "food", Description: "Recipes and restaurant finds"},
	{Title: "Science", Slug: "science", Description: "Discoveries, papers and discussion"},
}

// Run populates the database with fake users, groups, posts, comments and
// follow edges.
func Run(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 20
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = 100
	}

	if opts.ShouldClean {
		log.Println("Cleaning existing data...")
		if err := clean(db); err != nil {
			return fmt.Errorf("clean: %w", err)
		}
	}

	f := NewFactory(db)

	groups, err := ensureGroups(db)
	if err != nil {
		return fmt.Errorf("groups: %w", err)
	}
	log.Printf("Seeded %d groups", len(groups))

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("user %d: %w", i, err)
		}
		users = append(users, user)
	}
	log.Printf("Seeded %d users", len(users))

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[rand.Intn(len(users))]

		var groupID *uint
		// Roughly a third of posts go without a group, like real usage.
		if rand.Intn(3) != 0 {
			groupID = &groups[rand.Intn(len(groups))].ID
		}

		post, err := f.CreatePost(author, groupID)
		if err != nil {
			return fmt.Errorf("post %d: %w", i, err)
		}
		posts = append(posts, post)
	}
	log.Printf("Seeded %d posts", len(posts))

	comments := 0
	for _, post := range posts {
		n := rand.Intn(4)
		for i := 0; i < n; i++ {
			commenter := users[rand.Intn(len(users))]
			if err := f.CreateComment(commenter, post); err != nil {
				return fmt.Errorf("comment on post %d: %w", post.ID, err)
			}
			comments++
		}
	}
	log.Printf("Seeded %d comments", comments)

	follows := 0
	for _, follower := range users {
		n := rand.Intn(5)
		for i := 0; i < n; i++ {
			author := users[rand.Intn(len(users))]
			if author.ID == follower.ID {
				continue
			}
			edge := models.Follow{FollowerID: follower.ID, AuthorID: author.ID}
			if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge).Error; err != nil {
				return fmt.Errorf("follow: %w", err)
			}
			follows++
		}
	}
	log.Printf("Seeded %d follow edges", follows)

	return nil
}

// ensureGroups inserts the default groups, skipping slugs that already exist.
func ensureGroups(db *gorm.DB) ([]models.Group, error) {
	groups := make([]models.Group, 0, len(defaultGroups))
	for _, g := range defaultGroups {
		group := g
		if err := db.Where("slug = ?", group.Slug).FirstOrCreate(&group).Error; err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func clean(db *gorm.DB) error {
	// Children first to respect FK constraints.
	tables := []string{"comments", "follows", "posts", "groups", "users"}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "no such table") {
				continue
			}
			return err
		}
	}
	return nil
}

// HashedSeedPassword is the bcrypt hash shared by all seeded users so a
// developer can log in as any of them with the same known password.
var hashedSeedPassword = func() string {
	h, err := bcrypt.GenerateFromPassword([]byte("Seed!Passw0rd#2026"), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}()

func seededCreatedAt() time.Time {
	// Spread creation times over the last 30 days.
	offset := time.Duration(rand.Int63n(int64(30 * 24 * time.Hour)))
	return time.Now().Add(-offset)
}
