package seed

import (
	"fmt"
	"math/rand"

	"chatter/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

// fakeUser builds a user with generated identity fields. The index keeps
// usernames and emails unique across a run.
func fakeUser(i int, passwordHash string) *models.User {
	return &models.User{
		Username:     fmt.Sprintf("%s%d", gofakeit.Username(), i),
		DisplayName:  gofakeit.Name(),
		Email:        fmt.Sprintf("%d_%s", i, gofakeit.Email()),
		PasswordHash: passwordHash,
	}
}

func fakePost(author *models.User) *models.Post {
	return &models.Post{
		UserID:      author.ID,
		Description: gofakeit.Sentence(rand.Intn(15) + 3),
	}
}

func fakeComment(post *models.Post, author *models.User) *models.Comment {
	return &models.Comment{
		PostID: post.ID,
		UserID: author.ID,
		Text:   gofakeit.Sentence(rand.Intn(10) + 2),
	}
}

func fakeReply(comment *models.Comment, author *models.User) *models.Reply {
	return &models.Reply{
		CommentID: comment.ID,
		UserID:    author.ID,
		Text:      gofakeit.Sentence(rand.Intn(8) + 1),
	}
}

func randomReactionType() models.ReactionType {
	return models.ReactionTypes[rand.Intn(len(models.ReactionTypes))]
}
