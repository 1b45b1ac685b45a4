package seed

import (
	"fmt"
	"time"

	"yatube/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Factory creates fake domain records for seeding.
type Factory struct {
	db *gorm.DB
}

func NewFactory(db *gorm.DB) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db}
}

func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username:  fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
		Email:     gofakeit.Email(),
		Password:  hashedSeedPassword,
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
	}
	for _, o := range overrides {
		o(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (f *Factory) CreatePost(author *models.User, groupID *uint, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		Text:      gofakeit.Paragraph(1, 3, 8, "\n"),
		AuthorID:  author.ID,
		GroupID:   groupID,
		CreatedAt: seededCreatedAt(),
	}
	for _, o := range overrides {
		o(post)
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

func (f *Factory) CreateComment(author *models.User, post *models.Post) error {
	comment := &models.Comment{
		Text:      gofakeit.Sentence(gofakeit.Number(4, 15)),
		AuthorID:  author.ID,
		PostID:    post.ID,
		CreatedAt: post.CreatedAt.Add(time.Duration(gofakeit.Number(1, 72)) * time.Hour),
	}
	return f.db.Create(comment).Error
}
